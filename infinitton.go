// ***************************************************************************
//
//  Copyright 2019 David (Dizzy) Smith, dizzyd@dizzyd.com
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//       http://www.apache.org/licenses/LICENSE-2.0
//
//   Unless required by applicable law or agreed to in writing, software
//   distributed under the License is distributed on an "AS IS" BASIS,
//   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//   See the License for the specific language governing permissions and
//   limitations under the License.
// ***************************************************************************

// Package infinitton drives the Infinitton iDisplay, a 15-key USB HID panel
// with a 72x72 RGB display behind each key.
package infinitton

import (
	"github.com/dizzyd/hid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const vendor = 0xffff

const product = 0x1f40

// Panel geometry. Keys are zero-based, left-to-right, top-to-bottom.
const (
	NumKeys    = 15
	KeysPerRow = 5
	IconSize   = 72
)

var ErrNoDevices = errors.New("no devices found")
var ErrInvalidKey = errors.New("invalid key")
var ErrInvalidColor = errors.New("invalid color channel")
var ErrInvalidBrightness = errors.New("invalid brightness")
var ErrInvalidImage = errors.New("invalid image length")
var ErrClosed = errors.New("device is closed")

// KeyEventFn handles a single key edge; pressed is true on the down edge,
// false on the release edge. Return false to deregister the handler.
type KeyEventFn func(key int, pressed bool) bool

// ErrorFn receives transport errors surfaced from the inbound report stream.
type ErrorFn func(err error)

// Panel provides an interface for controlling an iDisplay
type Panel interface {
	// Fill a key with a solid color
	FillColor(key, r, g, b int) error

	// Fill a key with a raw 72x72 RGB image, 3 bytes per pixel, row-major
	FillImage(key int, pixels []byte) error

	// Fill the whole panel with a raw 360x216 RGB composite image laid out
	// as the 5x3 key grid
	FillPanelImage(pixels []byte) error

	// Blank a single key
	ClearKey(key int) error

	// Blank every key
	ClearAllKeys() error

	// Set the backlight brightness as a percentage
	SetBrightness(percent int) error

	// Set the handler for a given key
	SetKeyHandler(key int, fn KeyEventFn) error

	// Remove the handler for a given key
	ClearKeyHandler(key int) error

	// Set the handler for all keys
	SetGlobalKeyHandler(fn KeyEventFn)

	// Clear the handler for all keys
	ClearGlobalKeyHandler()

	// Set the handler notified of transport errors
	SetErrorHandler(fn ErrorFn)

	// Attach a logger for wire-level diagnostics
	SetLogger(log zerolog.Logger)

	// Process any key state reports; blocks up to timeout milliseconds. Use
	// zero as a timeout for non-blocking behaviour, use -1 for blocking
	// until a report arrives.
	ProcessEvents(timeout int) error

	// Listen dispatches key events until the panel is closed or the
	// transport fails; a transport failure is passed to the error handler
	// before Listen returns it.
	Listen() error

	// Release the device handle; any further operation returns ErrClosed
	Close() error
}

// transport is the slice of the HID device surface the driver uses. Tests
// substitute a recording fake.
type transport interface {
	WriteFeature(b []byte) error
	ReadTimeout(b []byte, timeout int) (int, error)
	Close() error
}

// Open finds the first attached iDisplay and returns an instance of the
// Panel interface
func Open() (Panel, error) {
	devices := hid.Enumerate(vendor, product)
	for _, deviceInfo := range devices {
		return openInfo(deviceInfo)
	}

	return nil, errors.WithStack(ErrNoDevices)
}

// OpenPath opens the iDisplay at an explicit platform device path
func OpenPath(path string) (Panel, error) {
	for _, deviceInfo := range hid.Enumerate(vendor, product) {
		if deviceInfo.Path == path {
			return openInfo(deviceInfo)
		}
	}

	return nil, errors.WithStack(ErrNoDevices)
}

func openInfo(deviceInfo hid.DeviceInfo) (Panel, error) {
	device, err := deviceInfo.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open device %d-%d", deviceInfo.VendorID, deviceInfo.ProductID)
	}

	return newPanel15(device), nil
}
