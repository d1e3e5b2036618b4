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
package infinitton

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type panel15 struct {
	device   transport
	keys     keyStateTracker
	handlers map[int]KeyEventFn
	global   KeyEventFn
	onError  ErrorFn
	log      zerolog.Logger
	closed   bool
}

func newPanel15(device transport) *panel15 {
	return &panel15{
		device:   device,
		handlers: make(map[int]KeyEventFn),
		log:      zerolog.Nop(),
	}
}

func (p *panel15) FillColor(key, r, g, b int) error {
	if p.closed {
		return errors.WithStack(ErrClosed)
	}
	if key < 0 || key >= NumKeys {
		return errors.WithStack(ErrInvalidKey)
	}
	for _, c := range []int{r, g, b} {
		if c < 0 || c > 255 {
			return errors.Wrapf(ErrInvalidColor, "(%d, %d, %d)", r, g, b)
		}
	}

	return p.writeKey(key, solidTile(byte(r), byte(g), byte(b)))
}

func (p *panel15) FillImage(key int, pixels []byte) error {
	if p.closed {
		return errors.WithStack(ErrClosed)
	}
	if key < 0 || key >= NumKeys {
		return errors.WithStack(ErrInvalidKey)
	}
	if len(pixels) != iconBytes {
		return errors.Wrapf(ErrInvalidImage, "expected %d bytes, got %d", iconBytes, len(pixels))
	}

	return p.writeKey(key, deviceTile(pixels, iconStride, 0))
}

func (p *panel15) FillPanelImage(pixels []byte) error {
	if p.closed {
		return errors.WithStack(ErrClosed)
	}
	if len(pixels) != panelBytes {
		return errors.Wrapf(ErrInvalidImage, "expected %d bytes, got %d", panelBytes, len(pixels))
	}

	for row := 0; row < NumKeys/KeysPerRow; row++ {
		for col := 0; col < KeysPerRow; col++ {
			key := row*KeysPerRow + col
			offset := row*IconSize*panelStride + col*iconStride
			if err := p.writeKey(key, deviceTile(pixels, panelStride, offset)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *panel15) ClearKey(key int) error {
	if p.closed {
		return errors.WithStack(ErrClosed)
	}
	if key < 0 || key >= NumKeys {
		return errors.WithStack(ErrInvalidKey)
	}

	// An all-zero tile is also a black solid fill
	return p.writeKey(key, make([]byte, iconBytes))
}

func (p *panel15) ClearAllKeys() error {
	for key := 0; key < NumKeys; key++ {
		if err := p.ClearKey(key); err != nil {
			return err
		}
	}
	return nil
}

func (p *panel15) SetBrightness(percent int) error {
	if p.closed {
		return errors.WithStack(ErrClosed)
	}
	if percent < 0 || percent > 100 {
		return errors.Wrapf(ErrInvalidBrightness, "%d", percent)
	}

	return errors.Wrapf(p.device.WriteFeature(brightnessPacket(percent)), "failed to set brightness")
}

// writeKey pushes a device-order tile to a key slot as the page1, page2,
// commit triad. A failure mid-triad leaves the key's displayed image
// undefined until the next full write.
func (p *panel15) writeKey(key int, tile []byte) error {
	if err := p.device.WriteFeature(pagePacket(page1Header, tile[:page1Bytes])); err != nil {
		return errors.Wrapf(err, "failed to write page 1 for key %d", key)
	}
	if err := p.device.WriteFeature(pagePacket(page2Header, tile[page1Bytes:])); err != nil {
		return errors.Wrapf(err, "failed to write page 2 for key %d", key)
	}
	if err := p.device.WriteFeature(commitPacket(key)); err != nil {
		return errors.Wrapf(err, "failed to commit key %d", key)
	}

	p.log.Debug().Int("key", key).Msg("wrote key image")
	return nil
}

func (p *panel15) SetKeyHandler(key int, fn KeyEventFn) error {
	if key < 0 || key >= NumKeys {
		return errors.WithStack(ErrInvalidKey)
	}
	p.handlers[key] = fn
	return nil
}

func (p *panel15) ClearKeyHandler(key int) error {
	if key < 0 || key >= NumKeys {
		return errors.WithStack(ErrInvalidKey)
	}
	delete(p.handlers, key)
	return nil
}

// Set the handler for all keys
func (p *panel15) SetGlobalKeyHandler(fn KeyEventFn) {
	p.global = fn
}

// Clear the handler for all keys
func (p *panel15) ClearGlobalKeyHandler() {
	p.global = nil
}

func (p *panel15) SetErrorHandler(fn ErrorFn) {
	p.onError = fn
}

func (p *panel15) SetLogger(log zerolog.Logger) {
	p.log = log
}

func (p *panel15) ProcessEvents(timeout int) error {
	if p.closed {
		return errors.WithStack(ErrClosed)
	}

	report := make([]byte, 16)
	n, err := p.device.ReadTimeout(report, timeout)
	if err != nil {
		return errors.Wrapf(err, "error reading key state report")
	}
	if n == 0 {
		return nil
	}

	events, err := p.keys.decode(report[:n])
	if err != nil {
		return err
	}
	for _, event := range events {
		p.dispatch(event)
	}
	return nil
}

func (p *panel15) Listen() error {
	for {
		err := p.ProcessEvents(-1)
		if err == nil {
			continue
		}
		if errors.Cause(err) == ErrClosed {
			return nil
		}
		if p.onError != nil {
			p.onError(err)
		}
		p.log.Warn().Err(err).Msg("listen loop stopped")
		return err
	}
}

func (p *panel15) dispatch(event keyEvent) {
	if p.global != nil && !p.global(event.key, event.pressed) {
		p.global = nil
	}
	if handler, exists := p.handlers[event.key]; exists {
		if !handler(event.key, event.pressed) {
			delete(p.handlers, event.key)
		}
	}
}

func (p *panel15) Close() error {
	if p.closed {
		return errors.WithStack(ErrClosed)
	}
	p.closed = true
	return errors.Wrapf(p.device.Close(), "failed to close device")
}
