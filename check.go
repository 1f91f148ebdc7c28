// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !nbuf_nocheck

package nbuf

// PoolCheckEnabled is true when pool ownership and leak diagnostics
// are compiled in. Destroy verifies the object belongs to the pool it
// is returned to, and Close reports slots that were never returned.
// Build with the nbuf_nocheck tag to compile the checks out on hot
// paths.
const PoolCheckEnabled = true
