//go:build windows

package input

import (
	"fmt"
	"unsafe"
)

// Windows implementation of input injection using SendInput

const (
	inputTypeMouse    = 0
	inputTypeKeyboard = 1

	mouseEventfMove       = 0x0001
	mouseEventfLeftDown   = 0x0002
	mouseEventfLeftUp     = 0x0004
	mouseEventfRightDown  = 0x0008
	mouseEventfRightUp    = 0x0010
	mouseEventfMiddleDown = 0x0020
	mouseEventfMiddleUp   = 0x0040
	mouseEventfXDown      = 0x0080
	mouseEventfXUp        = 0x0100

	keyEventfKeyUp   = 0x0002
	keyEventfUnicode = 0x0004

	xButton1 = 1
	xButton2 = 2
)

var (
	procSendInput    = user32.NewProc("SendInput")
	procSetCursorPos = user32.NewProc("SetCursorPos")
)

// mouseInput and keyboardInput mirror the SendInput union members. The
// extra-info field is widened to uint64 so the layout matches the 64-bit
// INPUT structure.
type mouseInput struct {
	dx        int32
	dy        int32
	mouseData uint32
	flags     uint32
	time      uint32
	extraInfo uint64
}

type keyboardInput struct {
	vk        uint16
	scan      uint16
	flags     uint32
	time      uint32
	extraInfo uint64
}

type mousePacket struct {
	inputType uint32
	_         uint32
	mi        mouseInput
}

type keyboardPacket struct {
	inputType uint32
	_         uint32
	ki        keyboardInput
	_         uint64 // pad to the size of the mouse variant
}

// Injector synthesizes input events through SendInput.
type Injector struct{}

// NewInjector creates a new input injector for Windows.
func NewInjector() *Injector {
	return &Injector{}
}

// InjectMousePosition places the cursor at absolute screen coordinates.
func (i *Injector) InjectMousePosition(x, y int) error {
	ret, _, err := procSetCursorPos.Call(uintptr(x), uintptr(y))
	if ret == 0 {
		return fmt.Errorf("SetCursorPos failed: %v", err)
	}
	return nil
}

// InjectMouseMove moves the cursor by a relative delta.
func (i *Injector) InjectMouseMove(dx, dy int) error {
	return sendMouse(mouseInput{dx: int32(dx), dy: int32(dy), flags: mouseEventfMove})
}

// InjectMouseButton presses or releases a mouse button at the current
// cursor position.
func (i *Injector) InjectMouseButton(button MouseButton, pressed bool) error {
	var mi mouseInput
	switch button {
	case ButtonLeft:
		mi.flags = pick(pressed, mouseEventfLeftDown, mouseEventfLeftUp)
	case ButtonRight:
		mi.flags = pick(pressed, mouseEventfRightDown, mouseEventfRightUp)
	case ButtonMiddle:
		mi.flags = pick(pressed, mouseEventfMiddleDown, mouseEventfMiddleUp)
	case ButtonX1:
		mi.flags = pick(pressed, mouseEventfXDown, mouseEventfXUp)
		mi.mouseData = xButton1
	case ButtonX2:
		mi.flags = pick(pressed, mouseEventfXDown, mouseEventfXUp)
		mi.mouseData = xButton2
	default:
		return fmt.Errorf("unsupported mouse button: %v", button)
	}
	return sendMouse(mi)
}

// InjectKey presses or releases a key. Named keys go through the
// virtual-key table; character keys are sent as Unicode so the produced
// text matches the recording regardless of layout.
func (i *Injector) InjectKey(key Key, pressed bool) error {
	var ki keyboardInput
	if !pressed {
		ki.flags = keyEventfKeyUp
	}

	switch {
	case key.Name != "":
		vk, ok := vkFromKey(key)
		if !ok {
			return fmt.Errorf("no virtual key for %q", key.Name)
		}
		ki.vk = vk
	case key.Char != 0:
		if key.Char > 0xFFFF {
			return fmt.Errorf("character %q is outside the basic plane", key.Char)
		}
		ki.scan = uint16(key.Char)
		ki.flags |= keyEventfUnicode
	default:
		return fmt.Errorf("empty key")
	}

	pkt := keyboardPacket{inputType: inputTypeKeyboard, ki: ki}
	ret, _, err := procSendInput.Call(1, uintptr(unsafe.Pointer(&pkt)), unsafe.Sizeof(pkt))
	if ret != 1 {
		return fmt.Errorf("SendInput failed: %v", err)
	}
	return nil
}

func sendMouse(mi mouseInput) error {
	pkt := mousePacket{inputType: inputTypeMouse, mi: mi}
	ret, _, err := procSendInput.Call(1, uintptr(unsafe.Pointer(&pkt)), unsafe.Sizeof(pkt))
	if ret != 1 {
		return fmt.Errorf("SendInput failed: %v", err)
	}
	return nil
}

func pick(pressed bool, down, up uint32) uint32 {
	if pressed {
		return down
	}
	return up
}
