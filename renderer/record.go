// renderer/record.go
// Copyright(c) 2025-2026 flyby contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"errors"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Frame is one recorded animation frame: the camera directive in effect
// and the snapshot that was drawn with it.
type Frame struct {
	Camera   *Camera
	Snapshot *Snapshot
}

// Recorder is a Renderer that appends frames to a zstd-compressed msgpack
// stream, giving replayable flight recordings. It buffers the camera from
// ApplyCamera and writes a Frame on each Draw, matching the driver's
// camera-then-draw call order.
type Recorder struct {
	zw     *zstd.Encoder
	enc    *msgpack.Encoder
	camera *Camera
	frames int
}

func NewRecorder(w io.Writer) (*Recorder, error) {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return nil, err
	}
	return &Recorder{zw: zw, enc: msgpack.NewEncoder(zw)}, nil
}

func (r *Recorder) ApplyCamera(c *Camera) error {
	r.camera = c
	return nil
}

func (r *Recorder) Draw(s *Snapshot) error {
	if err := r.enc.Encode(Frame{Camera: r.camera, Snapshot: s}); err != nil {
		return err
	}
	r.frames++
	return nil
}

func (r *Recorder) NumFrames() int { return r.frames }

// Close flushes the compressed stream; the Recorder must not be used
// afterward.
func (r *Recorder) Close() error {
	return r.zw.Close()
}

// ReadRecording decodes all frames from a stream written by Recorder.
func ReadRecording(rd io.Reader) ([]Frame, error) {
	zr, err := zstd.NewReader(rd, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var frames []Frame
	dec := msgpack.NewDecoder(zr)
	for {
		var f Frame
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				return frames, nil
			}
			return frames, err
		}
		frames = append(frames, f)
	}
}
