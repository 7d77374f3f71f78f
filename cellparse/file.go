package cellparse

import (
	"strconv"

	"github.com/binsentry/cellular-bg770/celltypes"
)

// ParseQFUPL parses a "+QFUPL:" file-upload result: uploaded length
// (decimal) and XOR checksum (hex, no "0x" prefix), range-checked to
// 16-bit.
func ParseQFUPL(line string) (celltypes.FileUploadResult, bool) {
	var invalid celltypes.FileUploadResult
	body, ok := stripPrefix(line, "+QFUPL:")
	if !ok {
		return invalid, false
	}
	tok := splitFields(body)
	if len(tok) < 2 {
		return invalid, false
	}
	length, err := strconv.ParseUint(tok[0], 10, 32)
	if err != nil {
		return invalid, false
	}
	checksum, err := strconv.ParseUint(tok[1], 16, 16)
	if err != nil {
		return invalid, false
	}
	return celltypes.FileUploadResult{
		Length:   uint32(length),
		Checksum: uint16(checksum),
	}, true
}

// ParseQFCRC parses a "+QFCRC:" line: three hex fields, crc32, crc16,
// crc16-ccitt.
func ParseQFCRC(line string) (celltypes.FileCRC, bool) {
	var invalid celltypes.FileCRC
	body, ok := stripPrefix(line, "+QFCRC:")
	if !ok {
		return invalid, false
	}
	tok := splitFields(body)
	if len(tok) < 3 {
		return invalid, false
	}
	crc32v, err := strconv.ParseUint(tok[0], 16, 32)
	if err != nil {
		return invalid, false
	}
	crc16v, err := strconv.ParseUint(tok[1], 16, 16)
	if err != nil {
		return invalid, false
	}
	crc16c, err := strconv.ParseUint(tok[2], 16, 16)
	if err != nil {
		return invalid, false
	}
	return celltypes.FileCRC{
		CRC32:     uint32(crc32v),
		CRC16:     uint16(crc16v),
		CRC16CCIT: uint16(crc16c),
	}, true
}
