// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !nbuf_va48 && !nbuf_va57

package nbuf

// vaBits is the number of virtual-address bits assumed to carry real
// address information. Bits above vaBits are repurposed as tag storage
// by TaggedPtr. 56 covers x86-64 with 5-level paging disabled and
// AArch64 without TBI consumers; select nbuf_va48 or nbuf_va57 build
// tags for other configurations.
const vaBits = 56
