// Package wire implements the FrSky Pixel OSD wire encoding: scalar and
// coordinate packing, CRC checksums, varints, frame assembly, and response
// decoding. It has no knowledge of transports or of the command dispatcher's
// batching policy; those live in package transport and package osd.
package wire

import "fmt"

// Opcode identifies a command or response on the wire.
type Opcode byte

// Command opcodes, from the device's fixed enumeration.
const (
	CmdError Opcode = 0

	CmdInfo            Opcode = 1
	CmdReadFont        Opcode = 2
	CmdWriteFont       Opcode = 3
	CmdGetActiveCamera Opcode = 6

	CmdTransactionBegin         Opcode = 16
	CmdTransactionCommit        Opcode = 17
	CmdTransactionBeginProfiled Opcode = 18

	CmdSetStrokeColor         Opcode = 22
	CmdSetFillColor           Opcode = 23
	CmdSetStrokeAndFillColor  Opcode = 24
	CmdSetColorInversion      Opcode = 25
	CmdSetPixel               Opcode = 26
	CmdSetPixelToStrokeColor  Opcode = 27
	CmdSetPixelToFillColor    Opcode = 28
	CmdSetStrokeWidth         Opcode = 29
	CmdSetLineOutlineType     Opcode = 30
	CmdSetLineOutlineColor    Opcode = 31

	CmdClipToRect              Opcode = 40
	CmdClearScreen             Opcode = 41
	CmdClearRect               Opcode = 42
	CmdDrawingReset            Opcode = 43
	CmdDrawBitmap              Opcode = 44
	CmdDrawBitmapMask          Opcode = 45
	CmdDrawChar                Opcode = 46
	CmdDrawCharMask            Opcode = 47
	CmdDrawString              Opcode = 48
	CmdDrawStringMask          Opcode = 49
	CmdMoveToPoint             Opcode = 50
	CmdStrokeLineToPoint       Opcode = 51
	CmdStrokeTriangle          Opcode = 52
	CmdFillTriangle            Opcode = 53
	CmdFillStrokeTriangle      Opcode = 54
	CmdStrokeRect              Opcode = 55
	CmdFillRect                Opcode = 56
	CmdFillStrokeRect          Opcode = 57
	CmdStrokeEllipseInRect     Opcode = 58
	CmdFillEllipseInRect       Opcode = 59
	CmdFillStrokeEllipseInRect Opcode = 60

	CmdCTMReset        Opcode = 80
	CmdCTMSet          Opcode = 81
	CmdCTMTranslate    Opcode = 82
	CmdCTMScale        Opcode = 83
	CmdCTMRotate       Opcode = 84
	CmdCTMRotateAbout  Opcode = 85
	CmdCTMShear        Opcode = 86
	CmdCTMShearAbout   Opcode = 87
	CmdCTMMultiply     Opcode = 88
	CmdCTMTranslateRev Opcode = 89

	CmdContextPush Opcode = 100
	CmdContextPop  Opcode = 101

	CmdDrawGridChr  Opcode = 110
	CmdDrawGridStr  Opcode = 111
	CmdDrawGridChr2 Opcode = 112
	CmdDrawGridStr2 Opcode = 113

	CmdWidgetSetConfig Opcode = 115
	CmdWidgetDraw      Opcode = 116
	CmdWidgetErase     Opcode = 117

	CmdReboot      Opcode = 120
	CmdWriteFlash  Opcode = 121
	CmdSetDataRate Opcode = 122

	CmdVMStorageSize   Opcode = 150
	CmdVMStorageRead   Opcode = 151
	CmdVMStorageWrite  Opcode = 152
	CmdVMStart         Opcode = 153
	CmdVMLookupSymbol  Opcode = 154
	CmdVMExec          Opcode = 155
)

var opcodeNames = map[Opcode]string{
	CmdError: "ERROR",

	CmdInfo:            "INFO",
	CmdReadFont:        "READ_FONT",
	CmdWriteFont:       "WRITE_FONT",
	CmdGetActiveCamera: "GET_ACTIVE_CAMERA",

	CmdTransactionBegin:         "TRANSACTION_BEGIN",
	CmdTransactionCommit:        "TRANSACTION_COMMIT",
	CmdTransactionBeginProfiled: "TRANSACTION_BEGIN_PROFILED",

	CmdSetStrokeColor:        "SET_STROKE_COLOR",
	CmdSetFillColor:          "SET_FILL_COLOR",
	CmdSetStrokeAndFillColor: "SET_STROKE_AND_FILL_COLOR",
	CmdSetColorInversion:     "SET_COLOR_INVERSION",
	CmdSetPixel:              "SET_PIXEL",
	CmdSetPixelToStrokeColor: "SET_PIXEL_TO_STROKE_COLOR",
	CmdSetPixelToFillColor:   "SET_PIXEL_TO_FILL_COLOR",
	CmdSetStrokeWidth:        "SET_STROKE_WIDTH",
	CmdSetLineOutlineType:    "SET_LINE_OUTLINE_TYPE",
	CmdSetLineOutlineColor:   "SET_LINE_OUTLINE_COLOR",

	CmdClipToRect:              "CLIP_TO_RECT",
	CmdClearScreen:             "CLEAR_SCREEN",
	CmdClearRect:               "CLEAR_RECT",
	CmdDrawingReset:            "DRAWING_RESET",
	CmdDrawBitmap:              "DRAW_BITMAP",
	CmdDrawBitmapMask:          "DRAW_BITMAP_MASK",
	CmdDrawChar:                "DRAW_CHAR",
	CmdDrawCharMask:            "DRAW_CHAR_MASK",
	CmdDrawString:              "DRAW_STRING",
	CmdDrawStringMask:          "DRAW_STRING_MASK",
	CmdMoveToPoint:             "MOVE_TO_POINT",
	CmdStrokeLineToPoint:       "STROKE_LINE_TO_POINT",
	CmdStrokeTriangle:          "STROKE_TRIANGLE",
	CmdFillTriangle:            "FILL_TRIANGLE",
	CmdFillStrokeTriangle:      "FILL_STROKE_TRIANGLE",
	CmdStrokeRect:              "STROKE_RECT",
	CmdFillRect:                "FILL_RECT",
	CmdFillStrokeRect:          "FILL_STROKE_RECT",
	CmdStrokeEllipseInRect:     "STROKE_ELLIPSE_IN_RECT",
	CmdFillEllipseInRect:       "FILL_ELLIPSE_IN_RECT",
	CmdFillStrokeEllipseInRect: "FILL_STROKE_ELLIPSE_IN_RECT",

	CmdCTMReset:        "CTM_RESET",
	CmdCTMSet:          "CTM_SET",
	CmdCTMTranslate:    "CTM_TRANSLATE",
	CmdCTMScale:        "CTM_SCALE",
	CmdCTMRotate:       "CTM_ROTATE",
	CmdCTMRotateAbout:  "CTM_ROTATE_ABOUT",
	CmdCTMShear:        "CTM_SHEAR",
	CmdCTMShearAbout:   "CTM_SHEAR_ABOUT",
	CmdCTMMultiply:     "CTM_MULTIPLY",
	CmdCTMTranslateRev: "CTM_TRANSLATE_REV",

	CmdContextPush: "CONTEXT_PUSH",
	CmdContextPop:  "CONTEXT_POP",

	CmdDrawGridChr:  "DRAW_GRID_CHR",
	CmdDrawGridStr:  "DRAW_GRID_STR",
	CmdDrawGridChr2: "DRAW_GRID_CHR_2",
	CmdDrawGridStr2: "DRAW_GRID_STR_2",

	CmdWidgetSetConfig: "WIDGET_SET_CONFIG",
	CmdWidgetDraw:      "WIDGET_DRAW",
	CmdWidgetErase:     "WIDGET_ERASE",

	CmdReboot:      "REBOOT",
	CmdWriteFlash:  "WRITE_FLASH",
	CmdSetDataRate: "SET_DATA_RATE",

	CmdVMStorageSize:  "VM_STORAGE_SIZE",
	CmdVMStorageRead:  "VM_STORAGE_READ",
	CmdVMStorageWrite: "VM_STORAGE_WRITE",
	CmdVMStart:        "VM_START",
	CmdVMLookupSymbol: "VM_LOOKUP_SYMBOL",
	CmdVMExec:         "VM_EXEC",
}

// String returns the opcode's symbolic name, or its numeric value if
// unrecognized.
func (o Opcode) String() string {
	if n, ok := opcodeNames[o]; ok {
		return n
	}
	return fmt.Sprintf("opcode(%d)", byte(o))
}
