// Copyright 2026 Benoit Pereira da Silva
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

package funcall

// Float64Ptr returns a pointer to the provided float64.
func Float64Ptr(v float64) *float64 {
	return &v
}

// IntPtr returns a pointer to the provided int.
func IntPtr(v int) *int {
	return &v
}

// StringPtr returns a pointer to the provided string.
func StringPtr(v string) *string {
	return &v
}
