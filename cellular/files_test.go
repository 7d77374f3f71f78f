package cellular

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadFileToModemSuccess(t *testing.T) {
	data := []byte("hello")
	cmdSet := map[string][]string{
		`AT+QFUPL="test.bin",5` + "\r": {">"},
		"hello":                        {"\r\n+QFUPL: 5,3d18\r\nOK\r\n"},
	}
	h, mm := newTestHandle(t, cmdSet)
	defer mm.Close()
	defer h.Cleanup()

	res, err := h.UploadFileToModem(context.Background(), "test.bin", data, 0)
	assert.NoError(t, err)
	assert.Equal(t, uint32(5), res.Length)
	assert.Equal(t, uint16(0x3d18), res.Checksum)
}

func TestUploadFileToModemTooLarge(t *testing.T) {
	h, mm := newTestHandle(t, nil)
	h.cfg.MaxFileUploadSize = 4
	defer mm.Close()
	defer h.Cleanup()

	_, err := h.UploadFileToModem(context.Background(), "test.bin", []byte("hello"), 0)
	if assert.Error(t, err) {
		cerr, ok := err.(*CellularError)
		assert.True(t, ok)
		assert.Equal(t, BadParameter, cerr.Kind)
	}
}

func TestDeleteFileOnModem(t *testing.T) {
	h, mm := newTestHandle(t, nil)
	defer mm.Close()
	defer h.Cleanup()

	assert.NoError(t, h.DeleteFileOnModem(context.Background(), "test.bin"))
}

func TestGetModemFileCRC32(t *testing.T) {
	cmdSet := map[string][]string{
		`AT+QFCRC="test.bin"` + "\r\n": {"+QFCRC: 3d18,ab12,cd34\r\n", "OK\r\n"},
	}
	h, mm := newTestHandle(t, cmdSet)
	defer mm.Close()
	defer h.Cleanup()

	crc, err := h.GetModemFileCRC32(context.Background(), "test.bin")
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x3d18), crc.CRC32)
}
