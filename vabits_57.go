// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build nbuf_va57

package nbuf

// vaBits for x86-64 with 5-level paging (LA57). Leaves 7 upper bits for
// TaggedPtr tags.
const vaBits = 57
