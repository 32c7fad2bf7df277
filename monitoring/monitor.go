// Package monitoring exposes a running flowsheet model as a web server so
// that its blocks can be inspected while an initialization is in progress.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/prosimlab/flowprop/model"
)

// Monitor can turn a model into a server and allows external inspection of
// its blocks, variables, and constraints.
type Monitor struct {
	blocks      []*model.Block
	portNumber  int
	openBrowser bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes StartServer open the monitor page in the default
// browser.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true

	return m
}

// RegisterBlock registers a block to be monitored.
func (m *Monitor) RegisterBlock(b *model.Block) {
	m.blocks = append(m.blocks, b)
}

// RegisterSystem registers every block of an aggregate.
func (m *Monitor) RegisterSystem(ib *model.IndexedBlock) {
	for _, b := range ib.Blocks() {
		m.RegisterBlock(b)
	}
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := NewProgressBar(name, total)

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars)-1)
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

func (m *Monitor) createRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/list_blocks", m.listBlocks)
	r.HandleFunc("/api/block/{name}", m.listBlockDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/variables/{name}", m.listVariables)
	r.HandleFunc("/api/constraints/{name}", m.listConstraints)
	r.HandleFunc("/api/dof", m.degreesOfFreedom)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)

	return r
}

// StartServer starts the monitor as a web server with a custom port if
// wanted.
func (m *Monitor) StartServer() {
	r := m.createRouter()
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring model with %s\n", url)

	if m.openBrowser {
		err = browser.OpenURL(url)
		dieOnErr(err)
	}

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

func (m *Monitor) listBlocks(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, b := range m.blocks {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "%q", b.Name())
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) listBlockDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	block := m.findBlockOr404(w, name)
	if block == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(block)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	BlockName string `json:"block_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	if err != nil {
		dieOnErr(err)
	}

	name := req.BlockName
	fields := strings.Split(req.FieldName, ".")

	block := m.findBlockOr404(w, name)
	if block == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(block)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(fields)
	dieOnErr(err)

	err = serializer.Serialize(w)
	dieOnErr(err)
}

type variableRsp struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Fixed bool    `json:"fixed"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

func (m *Monitor) listVariables(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	block := m.findBlockOr404(w, name)
	if block == nil {
		return
	}

	rsp := make([]variableRsp, 0, len(block.Variables()))
	for _, v := range block.Variables() {
		lower, upper := v.Bounds()
		rsp = append(rsp, variableRsp{
			Name:  v.Name(),
			Value: v.Value(),
			Unit:  v.Unit(),
			Fixed: v.IsFixed(),
			Lower: lower,
			Upper: upper,
		})
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type constraintRsp struct {
	Name     string  `json:"name"`
	Residual float64 `json:"residual"`
	Active   bool    `json:"active"`
}

func (m *Monitor) listConstraints(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	block := m.findBlockOr404(w, name)
	if block == nil {
		return
	}

	rsp := make([]constraintRsp, 0, len(block.Constraints()))
	for _, c := range block.Constraints() {
		rsp = append(rsp, constraintRsp{
			Name:     c.Name(),
			Residual: c.Residual(),
			Active:   c.IsActive(),
		})
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type dofRsp struct {
	FreeVariables     int `json:"free_variables"`
	ActiveConstraints int `json:"active_constraints"`
	DegreesOfFreedom  int `json:"degrees_of_freedom"`
}

func (m *Monitor) degreesOfFreedom(w http.ResponseWriter, _ *http.Request) {
	system := model.NewIndexedBlock("monitored", m.blocks...)

	rsp := dofRsp{
		FreeVariables:     len(system.FreeVariables()),
		ActiveConstraints: len(system.ActiveConstraints()),
		DegreesOfFreedom:  model.DegreesOfFreedom(system),
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) findBlockOr404(
	w http.ResponseWriter,
	name string,
) *model.Block {
	var block *model.Block
	for _, b := range m.blocks {
		if b.Name() == name {
			block = b
		}
	}

	if block == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Block not found"))
		dieOnErr(err)
	}

	return block
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bytes, err := json.Marshal(m.progressBars)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
