// Copyright (C) 2023 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

//go:build !linux

// Package debug exposes pprof handlers on an inherited file
// descriptor, so long corpus runs can be profiled without opening a
// public port.
package debug

import (
	"log"
)

// Fd is a no-op where inherited descriptors are not supported.
func Fd(fd int, lg *log.Logger) {
	lg.Printf("debug fd not supported on this platform")
}
