package wordfreq

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf8"
)

// decodeMsgpack reads a single msgpack value. The wordfreq data files only
// use arrays, maps, strings, bins, and numbers, so the decoder covers that
// subset of the format.
func decodeMsgpack(r io.Reader) (interface{}, error) {
	dec := msgpackDecoder{r: bufio.NewReader(r)}
	return dec.value()
}

type msgpackDecoder struct {
	r *bufio.Reader
}

func (d *msgpackDecoder) value() (interface{}, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}

	switch {
	case b <= 0x7f: // positive fixint
		return int64(b), nil
	case b >= 0xe0: // negative fixint
		return int64(int8(b)), nil
	case b >= 0xa0 && b <= 0xbf: // fixstr
		return d.str(int(b & 0x1f))
	case b >= 0x90 && b <= 0x9f: // fixarray
		return d.array(int(b & 0x0f))
	case b >= 0x80 && b <= 0x8f: // fixmap
		return d.mapping(int(b & 0x0f))
	}

	switch b {
	case 0xc0:
		return nil, nil
	case 0xc2:
		return false, nil
	case 0xc3:
		return true, nil
	case 0xc4, 0xc5, 0xc6: // bin
		length, err := d.length(1 << (b - 0xc4))
		if err != nil {
			return nil, err
		}
		return d.bytes(length)
	case 0xca: // float32
		bits, err := d.uint(4)
		if err != nil {
			return nil, err
		}
		return float64(math.Float32frombits(uint32(bits))), nil
	case 0xcb: // float64
		bits, err := d.uint(8)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(bits), nil
	case 0xcc, 0xcd, 0xce, 0xcf: // uint8..uint64
		val, err := d.uint(1 << (b - 0xcc))
		if err != nil {
			return nil, err
		}
		if b == 0xcf {
			return val, nil
		}
		return int64(val), nil
	case 0xd0, 0xd1, 0xd2, 0xd3: // int8..int64
		size := 1 << (b - 0xd0)
		val, err := d.uint(size)
		if err != nil {
			return nil, err
		}
		return signExtend(val, size), nil
	case 0xd9, 0xda, 0xdb: // str8..str32
		length, err := d.length(1 << (b - 0xd9))
		if err != nil {
			return nil, err
		}
		return d.str(length)
	case 0xdc, 0xdd: // array16, array32
		length, err := d.length(2 << (b - 0xdc))
		if err != nil {
			return nil, err
		}
		return d.array(length)
	case 0xde, 0xdf: // map16, map32
		length, err := d.length(2 << (b - 0xde))
		if err != nil {
			return nil, err
		}
		return d.mapping(length)
	default:
		return nil, fmt.Errorf("unsupported msgpack prefix 0x%x", b)
	}
}

func signExtend(val uint64, size int) int64 {
	shift := uint(64 - size*8)
	return int64(val<<shift) >> shift
}

func (d *msgpackDecoder) length(size int) (int, error) {
	val, err := d.uint(size)
	if err != nil {
		return 0, err
	}
	return int(val), nil
}

func (d *msgpackDecoder) uint(size int) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(d.r, buf[8-size:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

func (d *msgpackDecoder) array(length int) ([]interface{}, error) {
	out := make([]interface{}, 0, length)
	for i := 0; i < length; i++ {
		val, err := d.value()
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

func (d *msgpackDecoder) mapping(length int) (map[interface{}]interface{}, error) {
	out := make(map[interface{}]interface{}, length)
	for i := 0; i < length; i++ {
		key, err := d.value()
		if err != nil {
			return nil, err
		}
		val, err := d.value()
		if err != nil {
			return nil, err
		}
		out[key] = val
	}
	return out, nil
}

func (d *msgpackDecoder) str(length int) (string, error) {
	data, err := d.bytes(length)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (d *msgpackDecoder) bytes(length int) ([]byte, error) {
	if length < 0 {
		return nil, fmt.Errorf("invalid length %d", length)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func toFloat64(v interface{}) (float64, bool) {
	switch num := v.(type) {
	case float64:
		return num, true
	case int64:
		return float64(num), true
	case uint64:
		return float64(num), true
	case string:
		parsed, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func toString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case []byte:
		if utf8.Valid(val) {
			return string(val), true
		}
		return "", false
	default:
		return "", false
	}
}

func toStringSlice(v interface{}) ([]string, bool) {
	items, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		str, ok := toString(item)
		if !ok {
			return nil, false
		}
		out = append(out, str)
	}
	return out, true
}
