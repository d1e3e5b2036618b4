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
)

// keyBits maps each key index to the report byte and mask carrying its
// state (bit set = pressed). The mapping is hardware-fixed; rows two and
// three straddle the boundary between bytes 1 and 2.
//
//	Report layout (3 bytes used):
//
//	Byte 0: report ID
//	Byte 1: keys 0-7, bit 0 = key 0
//	Byte 2: keys 8-14, bit 0 = key 8
var keyBits = [NumKeys]struct {
	offset int
	mask   byte
}{
	{1, 0x01}, {1, 0x02}, {1, 0x04}, {1, 0x08}, {1, 0x10},
	{1, 0x20}, {1, 0x40}, {1, 0x80}, {2, 0x01}, {2, 0x02},
	{2, 0x04}, {2, 0x08}, {2, 0x10}, {2, 0x20}, {2, 0x40},
}

type keyEvent struct {
	key     int
	pressed bool
}

// keyStateTracker turns raw input reports into discrete key edges. Each
// physical press and release is reported exactly once; repeated reports of
// an unchanged state are silent.
type keyStateTracker struct {
	pressed [NumKeys]bool
}

// decode diffs one report against the stored state and updates it, emitting
// one event per changed key in ascending key order.
func (t *keyStateTracker) decode(report []byte) ([]keyEvent, error) {
	if len(report) < 3 {
		return nil, errors.Errorf("short input report: %d bytes", len(report))
	}

	var events []keyEvent
	for key, bit := range keyBits {
		now := report[bit.offset]&bit.mask != 0
		if now == t.pressed[key] {
			continue
		}
		t.pressed[key] = now
		events = append(events, keyEvent{key: key, pressed: now})
	}
	return events, nil
}
