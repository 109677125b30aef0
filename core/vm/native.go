// Copyright 2024 The go-u2u Authors
// This file is part of the go-u2u library.
//
// The go-u2u library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-u2u library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-u2u library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
)

// NativeCodePrefix starts every native code designator. 0xef is reserved by
// EIP-3541, so no deployed bytecode can collide with a designator.
var NativeCodePrefix = []byte{0xef, 0xfe}

// NativeCodeVersion is the only designator version understood by the host.
const NativeCodeVersion byte = 0x00

// MaxNativeNameLength bounds the contract name carried by a designator.
const MaxNativeNameLength = 255

// NativeCode returns the designator binding an account to the native contract
// registered under name:
//
//	0xef 0xfe <version> <len(name)> <name>
func NativeCode(name string) []byte {
	if len(name) == 0 || len(name) > MaxNativeNameLength {
		panic(fmt.Sprintf("invalid native contract name %q", name))
	}
	code := make([]byte, 0, len(NativeCodePrefix)+2+len(name))
	code = append(code, NativeCodePrefix...)
	code = append(code, NativeCodeVersion, byte(len(name)))
	return append(code, name...)
}

// ParseNativeCode splits code into the designator name and whatever follows
// the designator. Creation payloads carry the constructor arguments there;
// deployed code carries nothing.
func ParseNativeCode(code []byte) (name string, rest []byte, ok bool) {
	header := len(NativeCodePrefix) + 2
	if len(code) < header+1 || !bytes.HasPrefix(code, NativeCodePrefix) {
		return "", nil, false
	}
	if code[len(NativeCodePrefix)] != NativeCodeVersion {
		return "", nil, false
	}
	size := int(code[header-1])
	if size == 0 || len(code) < header+size {
		return "", nil, false
	}
	return string(code[header : header+size]), code[header+size:], true
}

// Registry resolves native code designators to contract implementations.
type Registry struct {
	mu        sync.RWMutex
	contracts map[string]NativeContract
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		contracts: make(map[string]NativeContract),
	}
}

// Register binds name to c. Registering a name twice is a programming error.
func (r *Registry) Register(name string, c NativeContract) {
	if c == nil {
		panic(fmt.Sprintf("nil native contract %q", name))
	}
	NativeCode(name) // validates the name

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contracts[name]; ok {
		panic(fmt.Sprintf("native contract %q registered twice", name))
	}
	r.contracts[name] = c
}

// Get returns the contract registered under name.
func (r *Registry) Get(name string) (NativeContract, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contracts[name]
	return c, ok
}

// Resolve returns the contract the given account code designates.
func (r *Registry) Resolve(code []byte) (NativeContract, error) {
	name, rest, ok := ParseNativeCode(code)
	if !ok || len(rest) != 0 {
		return nil, ErrInvalidCode
	}
	c, ok := r.Get(name)
	if !ok {
		return nil, &ErrUnknownNative{Name: name}
	}
	return c, nil
}

// Names lists the registered contract names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.contracts))
	for name := range r.contracts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
