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

// fakeTransport records outbound feature reports and replays queued input
// reports, standing in for a *hid.Device in tests.
type fakeTransport struct {
	features [][]byte
	reports  [][]byte
	writeErr error
	readErr  error
	closes   int
}

func (f *fakeTransport) WriteFeature(b []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.features = append(f.features, append([]byte(nil), b...))
	return nil
}

func (f *fakeTransport) ReadTimeout(b []byte, timeout int) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	if len(f.reports) == 0 {
		return 0, nil
	}
	report := f.reports[0]
	f.reports = f.reports[1:]
	return copy(b, report), nil
}

func (f *fakeTransport) Close() error {
	f.closes++
	return nil
}

func newTestPanel() (*panel15, *fakeTransport) {
	device := &fakeTransport{}
	return newPanel15(device), device
}
