package templates

import (
	"encoding/binary"
	"fmt"
	"io"

	"tablesight/internal/imaging"
)

// Mask file layout, little endian:
//
//	magic     [4]byte "TSMK"
//	version   uint16
//	count     uint16
//	width     uint16
//	height    uint16
//	threshold uint16   binarization channel-sum threshold (0..765)
//	masks     count × width×height bytes, 0 or 1, row major
//
// The format is deliberately dumb: a fixed header plus raw arrays, so the
// offline generator and this loader can evolve independently as long as the
// version matches.

var maskMagic = [4]byte{'T', 'S', 'M', 'K'}

const maskVersion = 1

type maskHeader struct {
	Magic     [4]byte
	Version   uint16
	Count     uint16
	Width     uint16
	Height    uint16
	Threshold uint16
}

// EncodeMasks writes a mask set in the asset format.
func EncodeMasks(w io.Writer, threshold int, masks []imaging.Mask) error {
	if len(masks) == 0 {
		return fmt.Errorf("no masks to encode")
	}
	width, height := masks[0].W, masks[0].H
	for i, m := range masks {
		if m.W != width || m.H != height {
			return fmt.Errorf("mask %d is %dx%d, expected %dx%d", i, m.W, m.H, width, height)
		}
	}

	hdr := maskHeader{
		Magic:     maskMagic,
		Version:   maskVersion,
		Count:     uint16(len(masks)),
		Width:     uint16(width),
		Height:    uint16(height),
		Threshold: uint16(threshold),
	}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return err
	}

	buf := make([]byte, width*height)
	for _, m := range masks {
		for i, b := range m.Bits {
			if b {
				buf[i] = 1
			} else {
				buf[i] = 0
			}
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMasks reads a mask set written by EncodeMasks.
func DecodeMasks(r io.Reader) (threshold int, masks []imaging.Mask, err error) {
	var hdr maskHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return 0, nil, fmt.Errorf("short header: %w", err)
	}
	if hdr.Magic != maskMagic {
		return 0, nil, fmt.Errorf("bad magic %q", hdr.Magic)
	}
	if hdr.Version != maskVersion {
		return 0, nil, fmt.Errorf("unsupported mask file version %d", hdr.Version)
	}
	if hdr.Count == 0 || hdr.Width == 0 || hdr.Height == 0 {
		return 0, nil, fmt.Errorf("degenerate header: count=%d size=%dx%d", hdr.Count, hdr.Width, hdr.Height)
	}

	size := int(hdr.Width) * int(hdr.Height)
	buf := make([]byte, size)
	masks = make([]imaging.Mask, 0, hdr.Count)
	for i := 0; i < int(hdr.Count); i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, nil, fmt.Errorf("mask %d truncated: %w", i, err)
		}
		m := imaging.NewMask(int(hdr.Width), int(hdr.Height))
		for j, v := range buf {
			if v > 1 {
				return 0, nil, fmt.Errorf("mask %d has non-binary byte %d at offset %d", i, v, j)
			}
			m.Bits[j] = v == 1
		}
		masks = append(masks, m)
	}
	return int(hdr.Threshold), masks, nil
}
