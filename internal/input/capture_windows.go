//go:build windows

package input

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Windows implementation of input capture using low-level hooks

const (
	whKeyboardLL = 13
	whMouseLL    = 14

	wmQuit = 0x0012

	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105

	wmMouseMove   = 0x0200
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205
	wmMButtonDown = 0x0207
	wmMButtonUp   = 0x0208
	wmMouseWheel  = 0x020A
	wmXButtonDown = 0x020B
	wmXButtonUp   = 0x020C
	wmMouseHWheel = 0x020E

	// One notch of a standard mouse wheel.
	wheelDelta = 120
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessage          = user32.NewProc("GetMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessage     = user32.NewProc("DispatchMessageW")
	procPostThreadMessage   = user32.NewProc("PostThreadMessageW")
	procGetCurrentThreadId  = kernel32.NewProc("GetCurrentThreadId")
)

type point struct {
	x, y int32
}

type message struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      point
}

type msllHookStruct struct {
	pt        point
	mouseData uint32
	flags     uint32
	time      uint32
	extraInfo uintptr
}

type kbdllHookStruct struct {
	vkCode    uint32
	scanCode  uint32
	flags     uint32
	time      uint32
	extraInfo uintptr
}

const eventBuffer = 1024

// Capture taps the global mouse and keyboard streams through low-level
// hooks. Hooks deliver to the installing thread's message queue, so they
// live on a dedicated locked OS thread; Stop posts WM_QUIT to that thread
// and waits for it to unwind.
type Capture struct {
	mu       sync.Mutex
	events   chan Notification
	running  bool
	threadID uint32
	done     chan struct{}

	mouseProc uintptr
	keyProc   uintptr
}

// NewCapture creates a new input capture for Windows.
func NewCapture() *Capture {
	c := &Capture{}
	c.mouseProc = windows.NewCallback(c.onMouse)
	c.keyProc = windows.NewCallback(c.onKey)
	return c
}

// Start installs the hooks and begins delivering notifications.
func (c *Capture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return fmt.Errorf("input capture already running")
	}

	c.events = make(chan Notification, eventBuffer)
	c.done = make(chan struct{})

	ready := make(chan error, 1)
	go c.hookLoop(ready)
	if err := <-ready; err != nil {
		return err
	}

	c.running = true
	return nil
}

// Stop removes the hooks and closes the notification channel.
func (c *Capture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}
	c.running = false

	procPostThreadMessage.Call(uintptr(c.threadID), wmQuit, 0, 0)
	<-c.done
	return nil
}

// Events returns the notification channel of the current run.
func (c *Capture) Events() <-chan Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events
}

// hookLoop installs the hooks and pumps messages until WM_QUIT arrives.
func (c *Capture) hookLoop(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(c.done)

	tid, _, _ := procGetCurrentThreadId.Call()
	c.threadID = uint32(tid)

	mouseHook, _, err := procSetWindowsHookEx.Call(whMouseLL, c.mouseProc, 0, 0)
	if mouseHook == 0 {
		ready <- fmt.Errorf("failed to set mouse hook: %v", err)
		return
	}
	keyHook, _, err := procSetWindowsHookEx.Call(whKeyboardLL, c.keyProc, 0, 0)
	if keyHook == 0 {
		procUnhookWindowsHookEx.Call(mouseHook)
		ready <- fmt.Errorf("failed to set keyboard hook: %v", err)
		return
	}
	ready <- nil

	var m message
	for {
		ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 {
			break
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
	}

	procUnhookWindowsHookEx.Call(mouseHook)
	procUnhookWindowsHookEx.Call(keyHook)
	close(c.events)
}

func (c *Capture) onMouse(nCode, wParam, lParam uintptr) uintptr {
	if int32(nCode) >= 0 {
		info := (*msllHookStruct)(unsafe.Pointer(lParam))
		x, y := int(info.pt.x), int(info.pt.y)

		deliver := true
		var n Notification
		switch uint32(wParam) {
		case wmMouseMove:
			n = Notification{Kind: KindMove, X: x, Y: y}
		case wmLButtonDown:
			n = Notification{Kind: KindButton, X: x, Y: y, Button: ButtonLeft, Pressed: true}
		case wmLButtonUp:
			n = Notification{Kind: KindButton, X: x, Y: y, Button: ButtonLeft}
		case wmRButtonDown:
			n = Notification{Kind: KindButton, X: x, Y: y, Button: ButtonRight, Pressed: true}
		case wmRButtonUp:
			n = Notification{Kind: KindButton, X: x, Y: y, Button: ButtonRight}
		case wmMButtonDown:
			n = Notification{Kind: KindButton, X: x, Y: y, Button: ButtonMiddle, Pressed: true}
		case wmMButtonUp:
			n = Notification{Kind: KindButton, X: x, Y: y, Button: ButtonMiddle}
		case wmXButtonDown:
			n = Notification{Kind: KindButton, X: x, Y: y, Button: xButton(info.mouseData), Pressed: true}
		case wmXButtonUp:
			n = Notification{Kind: KindButton, X: x, Y: y, Button: xButton(info.mouseData)}
		case wmMouseWheel:
			n = Notification{Kind: KindWheel, X: x, Y: y, DY: wheelSteps(info.mouseData)}
		case wmMouseHWheel:
			n = Notification{Kind: KindWheel, X: x, Y: y, DX: wheelSteps(info.mouseData)}
		default:
			deliver = false
		}

		if deliver {
			// Never block inside a hook; Windows drops hooks that stall.
			select {
			case c.events <- n:
			default:
			}
		}
	}

	ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
	return ret
}

func (c *Capture) onKey(nCode, wParam, lParam uintptr) uintptr {
	if int32(nCode) >= 0 {
		info := (*kbdllHookStruct)(unsafe.Pointer(lParam))

		deliver := true
		var pressed bool
		switch uint32(wParam) {
		case wmKeyDown, wmSysKeyDown:
			pressed = true
		case wmKeyUp, wmSysKeyUp:
			pressed = false
		default:
			deliver = false
		}

		if deliver {
			select {
			case c.events <- Notification{Kind: KindKey, Key: keyFromVK(uint16(info.vkCode)), Pressed: pressed}:
			default:
			}
		}
	}

	ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
	return ret
}

// wheelSteps converts the signed high word of mouseData to wheel notches.
func wheelSteps(data uint32) int {
	return int(int16(data>>16)) / wheelDelta
}

// xButton resolves WM_XBUTTON* to the extended button pressed.
func xButton(data uint32) MouseButton {
	if data>>16 == 1 {
		return ButtonX1
	}
	return ButtonX2
}
