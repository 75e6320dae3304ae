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

package batch

// Rusage records the CPU time and peak memory the process spent on a
// run, on platforms that expose getrusage(2).
type Rusage struct {
	UserSeconds	float64	`json:"user_seconds"`
	SysSeconds	float64	`json:"sys_seconds"`
	MaxRSSBytes	int64	`json:"max_rss_bytes"`
}

// readRusage returns nil where resource accounting is unavailable.
var readRusage = func() *Rusage { return nil }
