// Command osddemo connects to a FrSky Pixel OSD and continuously redraws
// one of its built-in widgets (artificial horizon, sidebar, or graph)
// with animated demo data.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kc5dju/osdctl/internal/demoutil"
	"github.com/kc5dju/osdctl/osd"
	"github.com/kc5dju/osdctl/osd/widget"
	"github.com/kc5dju/osdctl/transport"
	"github.com/kc5dju/osdctl/wire"
	"github.com/spf13/pflag"
)

// charWidth and charHeight are the OSD's fixed grid cell dimensions in
// pixels, used to lay out widgets on the grid.
const (
	charWidth  = 12
	charHeight = 18
)

func gridSizeToPixels(gw, gh int32) (int32, int32) {
	return gw * charWidth, gh * charHeight
}

// altM and altKM are the INAV unit-symbol codes for meters and
// kilometers, used to label the sidebar/graph altitude readouts.
const (
	altM  uint16 = 0xB1
	altKM uint16 = 0xB2
)

var widgetChoices = map[string]bool{
	"ahi":      true,
	"ahi_line": true,
	"sidebar":  true,
	"graph":    true,
}

func main() {
	trace := pflag.Bool("trace", false, "Print every byte sent and received.")
	once := pflag.Bool("once", false, "Draw the widget once, then exit.")
	profileAt := pflag.String("profile-at", "", "Screen point (\"x,y\") to draw profiling information at.")
	baud := pflag.IntP("baud", "b", 115200, "Baud rate for serial connections.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] port {ahi|ahi_line|sidebar|graph}\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 2 {
		pflag.Usage()
		os.Exit(1)
	}
	port := pflag.Arg(0)
	widgetName := pflag.Arg(1)
	if !widgetChoices[widgetName] {
		fmt.Fprintf(os.Stderr, "osddemo: unknown widget %q\n", widgetName)
		os.Exit(1)
	}

	opts := []osd.Option{osd.WithTrace(*trace), osd.WithDebug(*trace)}
	if *profileAt != "" {
		p, err := parsePoint(*profileAt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "osddemo: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, osd.WithProfileAt(p))
	}

	t, err := transport.Open(port, *baud)
	if err != nil {
		fmt.Fprintf(os.Stderr, "osddemo: %v\n", err)
		os.Exit(1)
	}
	c := osd.NewClient(t, *baud, opts...)
	if err := c.Connect(false); err != nil {
		fmt.Fprintf(os.Stderr, "osddemo: connect: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	demo := newDemo(c)
	draw, ok := demo.drawFuncs()[widgetName]
	if !ok {
		fmt.Fprintf(os.Stderr, "osddemo: unknown widget %q\n", widgetName)
		os.Exit(1)
	}

	c.DrawingReset()
	c.ClearScreen()
	for {
		c.TransactionBegin()
		if err := draw(); err != nil {
			fmt.Fprintf(os.Stderr, "osddemo: draw: %v\n", err)
			os.Exit(1)
		}
		if err := c.TransactionCommit(); err != nil {
			fmt.Fprintf(os.Stderr, "osddemo: commit: %v\n", err)
			os.Exit(1)
		}
		if *once {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func parsePoint(s string) (wire.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return wire.Point{}, wire.NewConfigError("profile-at must be in the form int,int, not %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return wire.Point{}, wire.NewConfigError("profile-at: %v", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return wire.Point{}, wire.NewConfigError("profile-at: %v", err)
	}
	return wire.Point{X: int32(x), Y: int32(y)}, nil
}

// demo holds the widget facade plus the animated pitch/roll/altitude
// variables the original widget demo kept as instance state.
type demo struct {
	c        *osd.Client
	w        *widget.Facade
	pitch    *demoutil.Var
	roll     *demoutil.Var
	altitude *demoutil.Var
}

func newDemo(c *osd.Client) *demo {
	piMax := 179.9 * (3.14159265358979323846 / 180)
	quarterPi := 3.14159265358979323846 / 4
	altMax := 5000.0 * 100
	return &demo{
		c:        c,
		w:        widget.New(c),
		pitch:    demoutil.NewVar(0, 0.01, piMax, nil),
		roll:     demoutil.NewVar(0, 0.01, quarterPi, nil),
		altitude: demoutil.NewVar(0, 500, -1000*100, &altMax),
	}
}

func (d *demo) drawFuncs() map[string]func() error {
	return map[string]func() error{
		"ahi":      func() error { return d.drawAHI(widget.AHIStyleStaircase) },
		"ahi_line": func() error { return d.drawAHI(widget.AHIStyleLine) },
		"sidebar":  d.drawSidebar,
		"graph":    d.drawGraph,
	}
}

const (
	ahiWidthGrid, ahiHeightGrid = 10, 10
	ahiCrosshairMargin          = 6
)

func (d *demo) ahiConfig(style uint8) widget.AHIConfig {
	info := d.c.Info()
	w, h := gridSizeToPixels(ahiWidthGrid, ahiHeightGrid)
	r := wire.NewRect((int32(info.PixelWidth)-w)/2, (int32(info.PixelHeight)-h)/2, w, h)
	return widget.AHIConfig{
		Rect:            r,
		Style:           style,
		Options:         widget.AHIOptionShowCorners,
		CrosshairMargin: ahiCrosshairMargin,
	}
}

// quantize maps val in [0, maxVal) (wrapping negatives into range) onto
// [0, maxQuant).
func quantize(val, maxVal float64, maxQuant int32) int32 {
	if val < 0 {
		val += maxVal
	}
	return int32((val / maxVal) * float64(maxQuant))
}

func (d *demo) drawAHI(style uint8) error {
	pitch, roll := d.pitch.Next(), d.roll.Next()
	const maxVal = 2 * 3.14159265358979323846
	const maxQuant = 1 << 12
	p := quantize(pitch, maxVal, maxQuant)
	r := quantize(roll, maxVal, maxQuant)
	return d.w.DrawAHI(d.ahiConfig(style), p, r)
}

const (
	sidebarWidthGrid, sidebarHeightGrid = 6, 10
	ahiPixelMargin                      = 12
)

func (d *demo) sidebarRect(right bool) wire.Rect {
	info := d.c.Info()
	w, h := gridSizeToPixels(sidebarWidthGrid, sidebarHeightGrid)
	ahiW, _ := gridSizeToPixels(ahiWidthGrid, ahiHeightGrid)
	y := (int32(info.PixelHeight) - h) / 2
	distance := (ahiW + ahiPixelMargin) / 2
	mid := int32(info.PixelWidth) / 2
	x := mid - distance - w
	if right {
		x = mid + distance
	}
	return wire.NewRect(x, y, w, h)
}

func altitudeUnit() wire.Unit {
	return wire.Unit{Scale: 100, Symbol: altM, Divisor: 1000, DividedSymbol: altKM}
}

func (d *demo) drawSidebar() error {
	cfg := widget.SidebarConfig{
		Rect:        d.sidebarRect(true),
		Divisions:   10,
		PerDivision: 50 * 100,
		Unit:        altitudeUnit(),
	}
	altitude := int32(d.altitude.Next())
	return d.w.DrawSidebar(widget.Sidebar0, cfg, altitude)
}

const graphWidthGrid, graphHeightGrid = 10, 3

func (d *demo) graphRect() wire.Rect {
	info := d.c.Info()
	w, h := gridSizeToPixels(graphWidthGrid, graphHeightGrid)
	x := (int32(info.PixelWidth) - w) / 2
	y := (int32(info.PixelHeight) - h) / 2
	return wire.NewRect(x, y, w, h)
}

func (d *demo) drawGraph() error {
	r := d.graphRect()
	cfg := widget.GraphConfig{
		Rect:         r,
		NLabels:      2,
		LabelWidth:   3,
		InitialScale: 0,
		Unit:         altitudeUnit(),
	}
	altitude := int32(d.altitude.Next())
	if err := d.w.DrawGraph(widget.Graph0, cfg, altitude); err != nil {
		return err
	}
	s := fmt.Sprintf("%08d", altitude)
	d.c.DrawString(wire.Point{X: r.Origin.X, Y: r.Origin.Y + r.Size.Y + 1}, s, wire.BitmapEraseTransparent)
	return nil
}
