// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build nbuf_nocheck

package nbuf

// PoolCheckEnabled is false when diagnostics are compiled out via the
// nbuf_nocheck build tag.
const PoolCheckEnabled = false
