package osd

import "github.com/kc5dju/osdctl/wire"

// SetStrokeColor sets the color used by subsequent stroke operations.
func (c *Client) SetStrokeColor(color wire.Color) error {
	if !color.Valid() {
		return wire.NewConfigError("invalid color %d", color)
	}
	c.SendFrame(wire.CmdSetStrokeColor, []byte{byte(color)})
	return nil
}

// SetFillColor sets the color used by subsequent fill operations.
func (c *Client) SetFillColor(color wire.Color) error {
	if !color.Valid() {
		return wire.NewConfigError("invalid color %d", color)
	}
	c.SendFrame(wire.CmdSetFillColor, []byte{byte(color)})
	return nil
}

// SetStrokeAndFillColor sets both the stroke and fill color in one call.
func (c *Client) SetStrokeAndFillColor(color wire.Color) error {
	if !color.Valid() {
		return wire.NewConfigError("invalid color %d", color)
	}
	c.SendFrame(wire.CmdSetStrokeAndFillColor, []byte{byte(color)})
	return nil
}

// SetColorInversion toggles color inversion for subsequent drawing.
func (c *Client) SetColorInversion(invert bool) {
	var v uint8
	if invert {
		v = 1
	}
	c.SendFrame(wire.CmdSetColorInversion, []byte{v})
}

// SetPixel paints a single pixel the given color.
func (c *Client) SetPixel(p wire.Point, color wire.Color) error {
	if !color.Valid() {
		return wire.NewConfigError("invalid color %d", color)
	}
	payload := wire.PutPoint(nil, p)
	payload = append(payload, byte(color))
	c.SendFrame(wire.CmdSetPixel, payload)
	return nil
}

// SetPixelToStrokeColor paints a single pixel using the current stroke
// color.
func (c *Client) SetPixelToStrokeColor(p wire.Point) {
	c.SendFrame(wire.CmdSetPixelToStrokeColor, wire.PutPoint(nil, p))
}

// SetPixelToFillColor paints a single pixel using the current fill color.
func (c *Client) SetPixelToFillColor(p wire.Point) {
	c.SendFrame(wire.CmdSetPixelToFillColor, wire.PutPoint(nil, p))
}

// SetStrokeWidth sets the pixel width of subsequent stroke operations.
func (c *Client) SetStrokeWidth(w uint8) {
	c.SendFrame(wire.CmdSetStrokeWidth, []byte{w})
}

// SetLineOutlineType selects which edges of subsequent strokes get an
// outline.
func (c *Client) SetLineOutlineType(ot wire.OutlineFlag) error {
	if !ot.Valid() {
		return wire.NewConfigError("invalid outline type %d", ot)
	}
	c.SendFrame(wire.CmdSetLineOutlineType, []byte{byte(ot)})
	return nil
}

// SetLineOutlineColor sets the color used for stroke outlines.
func (c *Client) SetLineOutlineColor(color wire.Color) error {
	if !color.Valid() {
		return wire.NewConfigError("invalid color %d", color)
	}
	c.SendFrame(wire.CmdSetLineOutlineColor, []byte{byte(color)})
	return nil
}

// ClipToRect restricts subsequent drawing to r.
func (c *Client) ClipToRect(r wire.Rect) {
	c.SendFrame(wire.CmdClipToRect, wire.PutRect(nil, r))
}

// ClearScreen clears the whole screen.
func (c *Client) ClearScreen() {
	c.SendFrame(wire.CmdClearScreen, nil)
}

// ClearRect clears r.
func (c *Client) ClearRect(r wire.Rect) {
	c.SendFrame(wire.CmdClearRect, wire.PutRect(nil, r))
}

// DrawingReset restores drawing state (colors, CTM, clip) to its defaults.
func (c *Client) DrawingReset() {
	c.SendFrame(wire.CmdDrawingReset, nil)
}

// DrawChar draws a single character at a pixel position.
func (c *Client) DrawChar(p wire.Point, ch uint16, opts wire.BitmapOpts) {
	payload := wire.PutPoint(nil, p)
	payload = wire.PutU16(payload, ch)
	payload = wire.PutU8(payload, byte(opts))
	c.SendFrame(wire.CmdDrawChar, payload)
}

// DrawCharMask draws a single character as a color mask.
func (c *Client) DrawCharMask(p wire.Point, ch uint16, opts wire.BitmapOpts, color wire.Color) {
	payload := wire.PutPoint(nil, p)
	payload = wire.PutU16(payload, ch)
	payload = wire.PutU8(payload, byte(opts))
	payload = wire.PutU8(payload, byte(color))
	c.SendFrame(wire.CmdDrawCharMask, payload)
}

// DrawString draws s at a pixel position.
func (c *Client) DrawString(p wire.Point, s string, opts wire.BitmapOpts) {
	payload := wire.PutPoint(nil, p)
	payload = wire.PutU8(payload, byte(opts))
	payload = wire.PutString(payload, s)
	c.SendFrame(wire.CmdDrawString, payload)
}

// DrawStringMask draws s as a color mask at a pixel position.
func (c *Client) DrawStringMask(p wire.Point, s string, opts wire.BitmapOpts, color wire.Color) {
	payload := wire.PutPoint(nil, p)
	payload = wire.PutU8(payload, byte(opts))
	payload = wire.PutU8(payload, byte(color))
	payload = wire.PutString(payload, s)
	c.SendFrame(wire.CmdDrawStringMask, payload)
}

// MoveToPoint moves the current drawing point without stroking.
func (c *Client) MoveToPoint(p wire.Point) {
	c.SendFrame(wire.CmdMoveToPoint, wire.PutPoint(nil, p))
}

// StrokeLineToPoint strokes a line from the current point to p and moves
// the current point there.
func (c *Client) StrokeLineToPoint(p wire.Point) {
	c.SendFrame(wire.CmdStrokeLineToPoint, wire.PutPoint(nil, p))
}

func packTriangle(p1, p2, p3 wire.Point) []byte {
	buf := wire.PutPoint(nil, p1)
	buf = wire.PutPoint(buf, p2)
	buf = wire.PutPoint(buf, p3)
	return buf
}

// StrokeTriangle strokes the outline of a triangle.
func (c *Client) StrokeTriangle(p1, p2, p3 wire.Point) {
	c.SendFrame(wire.CmdStrokeTriangle, packTriangle(p1, p2, p3))
}

// FillTriangle fills a triangle.
func (c *Client) FillTriangle(p1, p2, p3 wire.Point) {
	c.SendFrame(wire.CmdFillTriangle, packTriangle(p1, p2, p3))
}

// FillStrokeTriangle fills and strokes a triangle in one command.
func (c *Client) FillStrokeTriangle(p1, p2, p3 wire.Point) {
	c.SendFrame(wire.CmdFillStrokeTriangle, packTriangle(p1, p2, p3))
}

// StrokeRect strokes the outline of r.
func (c *Client) StrokeRect(r wire.Rect) {
	c.SendFrame(wire.CmdStrokeRect, wire.PutRect(nil, r))
}

// FillRect fills r.
func (c *Client) FillRect(r wire.Rect) {
	c.SendFrame(wire.CmdFillRect, wire.PutRect(nil, r))
}

// FillStrokeRect fills and strokes r in one command.
func (c *Client) FillStrokeRect(r wire.Rect) {
	c.SendFrame(wire.CmdFillStrokeRect, wire.PutRect(nil, r))
}

// StrokeEllipseInRect strokes an ellipse inscribed in r.
func (c *Client) StrokeEllipseInRect(r wire.Rect) {
	c.SendFrame(wire.CmdStrokeEllipseInRect, wire.PutRect(nil, r))
}

// FillEllipseInRect fills an ellipse inscribed in r.
func (c *Client) FillEllipseInRect(r wire.Rect) {
	c.SendFrame(wire.CmdFillEllipseInRect, wire.PutRect(nil, r))
}

// FillStrokeEllipseInRect fills and strokes an ellipse inscribed in r.
func (c *Client) FillStrokeEllipseInRect(r wire.Rect) {
	c.SendFrame(wire.CmdFillStrokeEllipseInRect, wire.PutRect(nil, r))
}

// CTMReset resets the current transformation matrix to identity.
func (c *Client) CTMReset() {
	c.SendFrame(wire.CmdCTMReset, nil)
}

// CTMSet replaces the current transformation matrix wholesale.
func (c *Client) CTMSet(m11, m12, m21, m22, m31, m32 float32) {
	payload := wire.PutF32(nil, m11)
	payload = wire.PutF32(payload, m12)
	payload = wire.PutF32(payload, m21)
	payload = wire.PutF32(payload, m22)
	payload = wire.PutF32(payload, m31)
	payload = wire.PutF32(payload, m32)
	c.SendFrame(wire.CmdCTMSet, payload)
}

// CTMTranslate translates the current transformation matrix.
func (c *Client) CTMTranslate(tx, ty float32) {
	payload := wire.PutF32(nil, tx)
	payload = wire.PutF32(payload, ty)
	c.SendFrame(wire.CmdCTMTranslate, payload)
}

// CTMTranslateRev translates the current transformation matrix in the
// opposite order CTMTranslate does (used when composing with a prior
// scale/rotate).
func (c *Client) CTMTranslateRev(tx, ty float32) {
	payload := wire.PutF32(nil, tx)
	payload = wire.PutF32(payload, ty)
	c.SendFrame(wire.CmdCTMTranslateRev, payload)
}

// CTMScale scales the current transformation matrix.
func (c *Client) CTMScale(sx, sy float32) {
	payload := wire.PutF32(nil, sx)
	payload = wire.PutF32(payload, sy)
	c.SendFrame(wire.CmdCTMScale, payload)
}

// CTMRotate rotates the current transformation matrix by r radians.
func (c *Client) CTMRotate(r float32) {
	c.SendFrame(wire.CmdCTMRotate, wire.PutF32(nil, r))
}

// CTMRotateAbout rotates the current transformation matrix by r radians
// about a pivot point.
func (c *Client) CTMRotateAbout(r float32, pivot wire.Point) {
	payload := wire.PutF32(nil, r)
	payload = wire.PutPoint(payload, pivot)
	c.SendFrame(wire.CmdCTMRotateAbout, payload)
}

// CTMShear shears the current transformation matrix.
func (c *Client) CTMShear(sx, sy float32) {
	payload := wire.PutF32(nil, sx)
	payload = wire.PutF32(payload, sy)
	c.SendFrame(wire.CmdCTMShear, payload)
}

// CTMShearAbout shears the current transformation matrix about a pivot
// point.
func (c *Client) CTMShearAbout(sx, sy float32, pivot wire.Point) {
	payload := wire.PutF32(nil, sx)
	payload = wire.PutF32(payload, sy)
	payload = wire.PutPoint(payload, pivot)
	c.SendFrame(wire.CmdCTMShearAbout, payload)
}

// CTMMultiply composes the current transformation matrix with another.
func (c *Client) CTMMultiply(m11, m12, m21, m22, m31, m32 float32) {
	payload := wire.PutF32(nil, m11)
	payload = wire.PutF32(payload, m12)
	payload = wire.PutF32(payload, m21)
	payload = wire.PutF32(payload, m22)
	payload = wire.PutF32(payload, m31)
	payload = wire.PutF32(payload, m32)
	c.SendFrame(wire.CmdCTMMultiply, payload)
}

// ContextPush saves the current drawing state (colors, CTM, clip) onto
// the device's context stack.
func (c *Client) ContextPush() {
	c.SendFrame(wire.CmdContextPush, nil)
}

// ContextPop restores the drawing state from the top of the context
// stack.
func (c *Client) ContextPop() {
	c.SendFrame(wire.CmdContextPop, nil)
}

// DrawGridChar draws a character at a grid cell, emitting the packed v2
// word when the device speaks v2 and the character fits it, the wider v1
// encoding otherwise.
func (c *Client) DrawGridChar(gx, gy uint8, ch uint16, opts wire.BitmapOpts) {
	if c.SpeaksV2() && wire.ValidGridChar2(ch, opts) {
		c.SendFrame(wire.CmdDrawGridChr2, wire.PutGridChar2(nil, gx, gy, ch, opts))
		return
	}
	payload := []byte{gx, gy}
	payload = wire.PutU16(payload, ch)
	payload = wire.PutU8(payload, byte(opts))
	c.SendFrame(wire.CmdDrawGridChr, payload)
}

// DrawGridString draws a string starting at a grid cell, emitting the
// packed v2 word when the device speaks v2 and opts fits in 3 bits, the
// wider v1 encoding otherwise.
func (c *Client) DrawGridString(gx, gy uint8, s string, opts wire.BitmapOpts) {
	if c.SpeaksV2() && opts <= 7 {
		c.SendFrame(wire.CmdDrawGridStr2, wire.PutGridString2(nil, gx, gy, opts, s))
		return
	}
	payload := []byte{gx, gy, byte(opts)}
	payload = wire.PutString(payload, s)
	c.SendFrame(wire.CmdDrawGridStr, payload)
}
