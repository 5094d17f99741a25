package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tensorgate/engine-runtime/engine"
	"github.com/tensorgate/engine-runtime/memref"
	"github.com/tensorgate/engine-runtime/registry"
	"github.com/tensorgate/engine-runtime/resource"
	"github.com/tensorgate/engine-runtime/runner"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2F6F4F")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateLoading modelState = iota
	stateInput
	stateShowResult
)

type interactiveModel struct {
	err      error
	ep       *engine.WasmEntryPoints
	reg      *registry.Registry
	filename string
	streams  int
	result   string
	inputs   []textinput.Model
	focusIdx int
	state    modelState
}

const (
	fieldShapes = iota
	fieldOutRanks
	numFields
)

func newInteractiveModel(filename string, streams int) *interactiveModel {
	m := &interactiveModel{
		filename: filename,
		streams:  streams,
		state:    stateLoading,
		inputs:   make([]textinput.Model, numFields),
	}

	shapes := textinput.New()
	shapes.Placeholder = "input shapes, e.g. 1x3x224x224,8"
	shapes.Focus()
	m.inputs[fieldShapes] = shapes

	ranks := textinput.New()
	ranks.Placeholder = "output ranks, e.g. 3,1"
	m.inputs[fieldOutRanks] = ranks

	return m
}

type loadedMsg struct {
	err error
	ep  *engine.WasmEntryPoints
	reg *registry.Registry
}

type invokeResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadEngine
}

func (m *interactiveModel) loadEngine() tea.Msg {
	ctx := context.Background()

	data, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}

	ep := engine.NewWasmEntryPoints(ctx)
	reg, err := registry.New(ctx, registry.Options{
		EntryPoints: ep,
		EngineBlob:  data,
		Streams:     m.streams,
	})
	if err != nil {
		_ = ep.Close(ctx)
		return loadedMsg{err: err}
	}

	return loadedMsg{ep: ep, reg: reg}
}

func (m *interactiveModel) invoke() tea.Msg {
	shapes, err := parseShapes(m.inputs[fieldShapes].Value())
	if err != nil {
		return invokeResultMsg{err: err}
	}
	ranks, err := parseRanks(m.inputs[fieldOutRanks].Value())
	if err != nil {
		return invokeResultMsg{err: err}
	}

	sig := runner.Signature{}
	tables := make([]memref.Table, len(shapes))
	for i, s := range shapes {
		sig.Inputs = append(sig.Inputs, runner.ArgSpec{Rank: len(s)})
		tables[i] = memref.Contig(0, s...)
	}
	for _, r := range ranks {
		sig.Outputs = append(sig.Outputs, runner.ArgSpec{Rank: r})
	}

	start := time.Now()
	outs, err := runner.New(m.reg, sig).Invoke(context.Background(), tables)
	if err != nil {
		return invokeResultMsg{err: err}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "enqueue %s\n", time.Since(start).Round(time.Microsecond))
	for i, out := range outs {
		fmt.Fprintf(&b, "out%d: shape %s  strides %s  ptr %#x\n",
			i, formatDims(out.Sizes), formatDims(out.Strides), uint64(out.Data()))
	}
	fmt.Fprintf(&b, "live contexts: %d, buffers: %d",
		m.ep.Resources().CountByType(resource.TypeContext),
		m.ep.Resources().CountByType(resource.TypeBuffer))
	return invokeResultMsg{result: b.String()}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.ep = msg.ep
		m.reg = msg.reg
		m.state = stateInput
		return m, nil

	case invokeResultMsg:
		m.err = msg.err
		m.result = msg.result
		m.state = stateShowResult
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateInput || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case "tab", "shift+tab":
			if m.state == stateInput {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % numFields
				m.inputs[m.focusIdx].Focus()
				return m, nil
			}
		case "enter":
			switch m.state {
			case stateInput:
				return m, m.invoke
			case stateShowResult:
				m.state = stateInput
				m.err = nil
				return m, nil
			}
		}
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("enginecall · "+m.filename) + "\n\n")

	switch m.state {
	case stateLoading:
		b.WriteString("loading engine...\n")

	case stateInput:
		b.WriteString(labelStyle.Render("shapes:   ") + m.inputs[fieldShapes].View() + "\n")
		b.WriteString(labelStyle.Render("out ranks:") + m.inputs[fieldOutRanks].View() + "\n\n")
		b.WriteString(helpStyle.Render("enter: invoke · tab: next field · ctrl+c: quit"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(m.err.Error()) + "\n\n")
		} else {
			b.WriteString(resultStyle.Render(m.result) + "\n\n")
		}
		b.WriteString(helpStyle.Render("enter: again · q: quit"))
	}

	return b.String()
}

func runInteractive(filename string, streams int) error {
	m := newInteractiveModel(filename, streams)
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(*interactiveModel); ok {
		if fm.ep != nil {
			_ = fm.ep.Close(context.Background())
		}
		if fm.err != nil {
			return fm.err
		}
	}
	return nil
}
