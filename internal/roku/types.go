// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package roku

// App is one installed application as reported by the device. Values are
// read fresh from each query response and never cached.
type App struct {
	ID      string `xml:"id,attr" json:"id"`
	Type    string `xml:"type,attr" json:"type"`
	Version string `xml:"version,attr" json:"version"`
	Name    string `xml:",chardata" json:"name"`
}

// Apps is the device's application list in the order the device returned it.
type Apps []App

// DeviceInfo maps camel-cased device attribute names to their values,
// flattened from the hyphenated tags of the device-info document.
type DeviceInfo map[string]string
