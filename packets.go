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

const (
	// Bytes per key image (72x72, 3 channels) and per composite panel image
	iconBytes  = IconSize * IconSize * 3
	panelBytes = iconBytes * NumKeys

	// Row strides of a single-key source image and of the 360x216 composite
	iconStride  = IconSize * 3
	panelStride = iconStride * KeysPerRow

	// Each page travels as a fixed-size feature report; page 1 carries the
	// first 7946 pixel bytes after its header, page 2 carries the rest. The
	// split lands mid-pixel, which the device is fine with.
	packetSize = 8017
	page1Bytes = 7946
	page2Bytes = iconBytes - page1Bytes

	// Offset of the one-based key selector within the commit report
	commitKeyOffset = 5
)

// The following header bytes were captured from the vendor driver's USB
// traffic. Page 1 embeds a standard 54-byte BMP header describing a 72x72
// 24-bit image; the 17 bytes preceding it and all of the page 2 header are
// fixed command framing.
var page1Header = []byte{
	0x02, 0x00, 0x1f, 0x00, 0x00, 0x38, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00,
	0x42, 0x4d, 0xf6, 0x3c, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x36, 0x00, 0x00, 0x00, 0x28, 0x00,
	0x00, 0x00, 0x48, 0x00, 0x00, 0x00, 0x48, 0x00,
	0x00, 0x00, 0x01, 0x00, 0x18, 0x00, 0x00, 0x00,
	0x00, 0x00, 0xc0, 0x3c, 0x00, 0x00, 0xc4, 0x0e,
	0x00, 0x00, 0xc4, 0x0e, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

var page2Header = []byte{
	0x02, 0x00, 0x1f, 0x01, 0x00, 0xe6, 0x1d, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00,
}

// commitTemplate finalizes a two-page write; byte commitKeyOffset selects
// the key slot the pages belong to.
var commitTemplate = []byte{
	0x00, 0x12, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00,
}

var brightnessPrefix = []byte{0x00, 0x11}

// deviceTile extracts a 72x72 RGB tile from src, starting at offset and
// advancing stride bytes per row, and returns it in the layout the panel
// expects: each row mirrored horizontally, channels reordered to BGR.
func deviceTile(src []byte, stride, offset int) []byte {
	tile := make([]byte, iconBytes)
	for y := 0; y < IconSize; y++ {
		srcRow := offset + y*stride
		dstRow := y * iconStride
		for x := 0; x < IconSize; x++ {
			s := srcRow + x*3
			d := dstRow + (IconSize-1-x)*3
			tile[d] = src[s+2]
			tile[d+1] = src[s+1]
			tile[d+2] = src[s]
		}
	}
	return tile
}

// solidTile builds a device-order tile of one color. All pixels are
// identical, so no mirroring is involved.
func solidTile(r, g, b byte) []byte {
	tile := make([]byte, iconBytes)
	for i := 0; i < iconBytes; i += 3 {
		tile[i] = b
		tile[i+1] = g
		tile[i+2] = r
	}
	return tile
}

// pagePacket frames a header and pixel payload into one fixed-size feature
// report, zero-padded to packetSize.
func pagePacket(header, payload []byte) []byte {
	packet := make([]byte, packetSize)
	n := copy(packet, header)
	copy(packet[n:], payload)
	return packet
}

func commitPacket(key int) []byte {
	packet := make([]byte, len(commitTemplate))
	copy(packet, commitTemplate)
	packet[commitKeyOffset] = byte(key + 1)
	return packet
}

func brightnessPacket(percent int) []byte {
	return append(append([]byte{}, brightnessPrefix...), byte(percent))
}
