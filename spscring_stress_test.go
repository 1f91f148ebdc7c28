// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

// The ring synchronizes through acquire/release cursor stores that the
// race detector does not model, so the stress test is excluded from
// race builds.

package nbuf_test

import (
	"bytes"
	"math/rand"
	"testing"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/nbuf"
)

// TestSPSCRingStream pushes a few MiB of random bytes through a small
// ring in random-sized chunks from a producer goroutine while the
// consumer drains in independently random-sized chunks. The
// concatenation of everything read must equal everything written,
// byte for byte, which fails if the cursor ordering ever lets a read
// observe a slot before its write completed.
func TestSPSCRingStream(t *testing.T) {
	const total = 4 << 20
	const maxChunk = 256

	src := make([]byte, total)
	rng := rand.New(rand.NewSource(1))
	rng.Read(src)

	r := nbuf.NewSPSCRing(maxChunk)

	done := make(chan struct{})
	go func() {
		defer close(done)
		backoff := iox.Backoff{}
		for sent := 0; sent < total; {
			n := 1 + rng.Intn(maxChunk)
			if sent+n > total {
				n = total - sent
			}
			if !r.TryWrite(src[sent : sent+n]) {
				backoff.Wait()
				continue
			}
			sent += n
			backoff.Reset()
		}
	}()

	got := make([]byte, 0, total)
	chunk := make([]byte, maxChunk)
	crng := rand.New(rand.NewSource(2))
	backoff := iox.Backoff{}
	for len(got) < total {
		want := 1 + crng.Intn(maxChunk)
		if rem := total - len(got); want > rem {
			want = rem
		}
		n, err := r.Read(chunk[:want])
		if err != nil {
			if nbuf.IsWouldBlock(err) {
				backoff.Wait()
				continue
			}
			t.Fatalf("Read: %v", err)
		}
		got = append(got, chunk[:n]...)
		backoff.Reset()
	}
	<-done

	if !r.Empty() {
		t.Fatalf("%d bytes left in ring after stream", r.AvailableRead())
	}
	if !bytes.Equal(got, src) {
		for i := range src {
			if got[i] != src[i] {
				t.Fatalf("stream diverges at byte %d: got %#02x, want %#02x", i, got[i], src[i])
			}
		}
	}
}
