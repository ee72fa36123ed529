//go:build windows

package timeres

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	winmm               = windows.NewLazySystemDLL("winmm.dll")
	procTimeGetDevCaps  = winmm.NewProc("timeGetDevCaps")
	procTimeBeginPeriod = winmm.NewProc("timeBeginPeriod")
	procTimeEndPeriod   = winmm.NewProc("timeEndPeriod")
)

// timecaps mirrors TIMECAPS, periods in milliseconds.
type timecaps struct {
	periodMin uint32
	periodMax uint32
}

const timerNoError = 0

func raise() (*Handle, error) {
	if err := procTimeBeginPeriod.Find(); err != nil {
		return nil, fmt.Errorf("winmm unavailable: %w", err)
	}

	var caps timecaps
	if r, _, _ := procTimeGetDevCaps.Call(uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps)); r != timerNoError {
		return nil, fmt.Errorf("timeGetDevCaps failed: %d", r)
	}

	period := caps.periodMin
	if period == 0 {
		period = 1
	}

	if r, _, _ := procTimeBeginPeriod.Call(uintptr(period)); r != timerNoError {
		return nil, fmt.Errorf("timeBeginPeriod(%d) failed: %d", period, r)
	}

	return &Handle{
		resolution: time.Duration(period) * time.Millisecond,
		release: func() error {
			if r, _, _ := procTimeEndPeriod.Call(uintptr(period)); r != timerNoError {
				return fmt.Errorf("timeEndPeriod(%d) failed: %d", period, r)
			}
			return nil
		},
	}, nil
}
