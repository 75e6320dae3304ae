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

import "runtime"

// memTotal is the total usable DRAM in bytes. On Linux this value is
// read from /proc/meminfo; elsewhere it stays zero.
var memTotal int64

// Host describes the machine a run executed on, so benchmark numbers
// stay comparable across result files.
type Host struct {
	GOOS		string	`json:"goos"`
	GOARCH		string	`json:"goarch"`
	CPUs		int	`json:"cpus"`
	MemTotal	int64	`json:"mem_total_bytes,omitempty"`
}

func hostInfo() Host {
	return Host{
		GOOS:		runtime.GOOS,
		GOARCH:		runtime.GOARCH,
		CPUs:		runtime.NumCPU(),
		MemTotal:	memTotal,
	}
}
