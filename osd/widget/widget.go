// Package widget is the typed facade over the device's built-in AHI,
// sidebar, and graph widgets: it packs each widget's config/draw payload
// and caches the one-time WIDGET_SET_CONFIG call per widget slot, the way
// the original demo cached it behind a "configured" flag set on first use.
package widget

import (
	"sync"

	"github.com/kc5dju/osdctl/osd"
	"github.com/kc5dju/osdctl/wire"
)

// Widget ids, from the device's fixed enumeration.
const (
	IDAHI      uint8 = 0
	IDSidebar0 uint8 = 1
	IDSidebar1 uint8 = 2
	IDGraph0   uint8 = 3
	IDGraph1   uint8 = 4
	IDGraph2   uint8 = 5
	IDGraph3   uint8 = 6
)

// AHI styles and options.
const (
	AHIStyleStaircase uint8 = 0
	AHIStyleLine      uint8 = 1

	AHIOptionShowCorners uint8 = 1 << 0
)

// Sidebar options.
const (
	SidebarOptionLeft      uint8 = 1 << 0
	SidebarOptionReverse   uint8 = 1 << 1
	SidebarOptionUnlabeled uint8 = 1 << 2
	SidebarOptionStatic    uint8 = 1 << 3
)

// Graph options.
const (
	GraphOptionBatched uint8 = 1 << 0
)

// SidebarSlot selects between a widget's two sidebar instances.
type SidebarSlot uint8

const (
	Sidebar0 SidebarSlot = iota
	Sidebar1
)

func (s SidebarSlot) id() (uint8, error) {
	switch s {
	case Sidebar0:
		return IDSidebar0, nil
	case Sidebar1:
		return IDSidebar1, nil
	default:
		return 0, wire.NewConfigError("sidebar index must be 0 or 1, got %d", s)
	}
}

// GraphSlot selects between a widget's four graph instances.
type GraphSlot uint8

const (
	Graph0 GraphSlot = iota
	Graph1
	Graph2
	Graph3
)

func (g GraphSlot) id() (uint8, error) {
	if g > Graph3 {
		return 0, wire.NewConfigError("graph index must be between 0 and 3, got %d", g)
	}
	return IDGraph0 + uint8(g), nil
}

// AHIConfig is the AHI widget's one-time layout configuration.
type AHIConfig struct {
	Rect            wire.Rect
	Style           uint8
	Options         uint8
	CrosshairMargin uint8
	StrokeWidth     uint8
}

// SidebarConfig is a sidebar widget's one-time layout configuration.
type SidebarConfig struct {
	Rect        wire.Rect
	Options     uint8
	Divisions   uint8
	PerDivision uint16
	Unit        wire.Unit
}

// GraphConfig is a graph widget's one-time layout configuration.
type GraphConfig struct {
	Rect         wire.Rect
	Options      uint8
	NLabels      uint8
	LabelWidth   uint8
	InitialScale uint8
	Unit         wire.Unit
}

// Facade wraps an osd.Client with the widget configure-once/draw-many
// pattern: each widget slot's WIDGET_SET_CONFIG is sent at most once,
// guarded by its own sync.Once, mirroring the original demo's
// configure-on-first-draw booleans.
type Facade struct {
	c *osd.Client

	ahiOnce     sync.Once
	ahiErr      error
	sidebarOnce [2]sync.Once
	sidebarErr  [2]error
	graphOnce   [4]sync.Once
	graphErr    [4]error
}

// New builds a Facade over an already-connected Client.
func New(c *osd.Client) *Facade {
	return &Facade{c: c}
}

// ConfigureAHI sends the AHI widget's layout once, the first time it (or
// DrawAHI) is called.
func (f *Facade) ConfigureAHI(cfg AHIConfig) error {
	f.ahiOnce.Do(func() {
		payload := wire.PutRect(nil, cfg.Rect)
		payload = append(payload, cfg.Style, cfg.Options, cfg.CrosshairMargin, cfg.StrokeWidth)
		f.ahiErr = f.c.WidgetSetConfig(IDAHI, payload)
	})
	return f.ahiErr
}

// DrawAHI configures the AHI widget on first call, then buffers a
// WIDGET_DRAW with the packed pitch/roll point.
func (f *Facade) DrawAHI(cfg AHIConfig, pitch, roll int32) error {
	if err := f.ConfigureAHI(cfg); err != nil {
		return err
	}
	data := wire.PutPoint(nil, wire.Point{X: pitch, Y: roll})
	f.c.WidgetDraw(IDAHI, data)
	return nil
}

// ConfigureSidebar sends a sidebar's layout once.
func (f *Facade) ConfigureSidebar(slot SidebarSlot, cfg SidebarConfig) error {
	wid, err := slot.id()
	if err != nil {
		return err
	}
	f.sidebarOnce[slot].Do(func() {
		payload := wire.PutRect(nil, cfg.Rect)
		payload = append(payload, cfg.Options, cfg.Divisions)
		payload = wire.PutU16(payload, cfg.PerDivision)
		payload = putUnit(payload, cfg.Unit)
		f.sidebarErr[slot] = f.c.WidgetSetConfig(wid, payload)
	})
	return f.sidebarErr[slot]
}

// DrawSidebar configures the sidebar on first call, then buffers a
// WIDGET_DRAW with its signed 24-bit value.
func (f *Facade) DrawSidebar(slot SidebarSlot, cfg SidebarConfig, value int32) error {
	if err := f.ConfigureSidebar(slot, cfg); err != nil {
		return err
	}
	wid, err := slot.id()
	if err != nil {
		return err
	}
	f.c.WidgetDraw(wid, wire.PutI24(nil, value))
	return nil
}

// ConfigureGraph sends a graph's layout once.
func (f *Facade) ConfigureGraph(slot GraphSlot, cfg GraphConfig) error {
	wid, err := slot.id()
	if err != nil {
		return err
	}
	f.graphOnce[slot].Do(func() {
		payload := wire.PutRect(nil, cfg.Rect)
		payload = append(payload, cfg.Options, cfg.NLabels, cfg.LabelWidth, cfg.InitialScale)
		payload = putUnit(payload, cfg.Unit)
		f.graphErr[slot] = f.c.WidgetSetConfig(wid, payload)
	})
	return f.graphErr[slot]
}

// DrawGraph configures the graph on first call, then buffers a
// WIDGET_DRAW with its signed 24-bit value.
func (f *Facade) DrawGraph(slot GraphSlot, cfg GraphConfig, value int32) error {
	if err := f.ConfigureGraph(slot, cfg); err != nil {
		return err
	}
	wid, err := slot.id()
	if err != nil {
		return err
	}
	f.c.WidgetDraw(wid, wire.PutI24(nil, value))
	return nil
}

func putUnit(buf []byte, u wire.Unit) []byte {
	buf = wire.PutU16(buf, u.Scale)
	buf = wire.PutU16(buf, u.Symbol)
	buf = wire.PutU16(buf, u.Divisor)
	buf = wire.PutU16(buf, u.DividedSymbol)
	return buf
}
