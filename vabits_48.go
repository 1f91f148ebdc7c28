// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build nbuf_va48

package nbuf

// vaBits for platforms with 48-bit virtual addressing. Leaves 16 upper
// bits for TaggedPtr tags.
const vaBits = 48
