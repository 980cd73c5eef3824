package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jpeg2epub/internal/processor"
)

func apply(m Model, updates ...processor.ProgressUpdate) Model {
	for _, u := range updates {
		next, _ := m.Update(updateMsg(u))
		m = next.(Model)
	}
	return m
}

func TestModelCountsPages(t *testing.T) {
	m := NewModel("book", nil)
	m = apply(m,
		processor.ProgressUpdate{Stage: processor.StageScan},
		processor.ProgressUpdate{TotalDelta: 4},
		processor.ProgressUpdate{Stage: processor.StageConvert},
		processor.ProgressUpdate{StartedDelta: 1},
		processor.ProgressUpdate{StartedDelta: 1},
		processor.ProgressUpdate{FinishedDelta: 1, ConvertedDelta: 1},
		processor.ProgressUpdate{FinishedDelta: 1, FailedDelta: 1},
		processor.ProgressUpdate{StartedDelta: 1},
	)

	assert.Equal(t, processor.StageConvert, m.stage)
	assert.Equal(t, 4, m.total)
	assert.Equal(t, 1, m.running)
	assert.Equal(t, 1, m.converted)
	assert.Equal(t, 1, m.failed)

	view := m.View()
	assert.Contains(t, view, "Pages: 1/4")
	assert.Contains(t, view, "running:1  failed:1")
	assert.Contains(t, view, "converting")
}

func TestModelQuitsWhenUpdatesClose(t *testing.T) {
	updates := make(chan processor.ProgressUpdate)
	close(updates)
	m := NewModel("book", updates)

	msg := m.Init()()
	require.IsType(t, doneMsg{}, msg)

	next, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.Empty(t, next.View())
}

func TestModelListensForNextUpdate(t *testing.T) {
	updates := make(chan processor.ProgressUpdate, 1)
	updates <- processor.ProgressUpdate{TotalDelta: 2}
	m := NewModel("book", updates)

	msg := m.Init()()
	next, cmd := m.Update(msg)
	assert.Equal(t, 2, next.(Model).total)
	assert.NotNil(t, cmd)
}

func TestModelWindowWidth(t *testing.T) {
	m := NewModel("book", nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 25})
	view := next.View()
	bar := view[strings.LastIndex(view, "\n")+1:]
	assert.Contains(t, bar, "["+strings.Repeat(" ", 20)+"]")
}

func TestRenderBar(t *testing.T) {
	assert.Equal(t, "[=====     ]", renderBar(10, 0.5))
	assert.Equal(t, "[==========]", renderBar(10, 2))
	assert.Equal(t, "[          ]", renderBar(10, -1))
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary([]SummaryRow{
		{Label: "Pages", Value: "12"},
		{Label: "Output", Value: "book.epub"},
	})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, lines[0], lines[3])
	assert.Contains(t, lines[1], "Pages ")
	assert.Contains(t, lines[2], "book.epub")
}

func TestModelPrintsLogLines(t *testing.T) {
	m := NewModel("book", nil)
	next, cmd := m.Update(logLineMsg("12:00 [INFO] hello"))
	assert.NotNil(t, cmd)
	assert.Equal(t, m.total, next.(Model).total)
}
