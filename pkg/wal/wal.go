package wal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
)

const (
	// rw-r--r--
	FileModeDefault fs.FileMode = 0644

	// rw-------
	FileModePrivate fs.FileMode = 0600
)

// WAL 以 JSON Lines 格式追加寫入的日誌檔
//
// Write 只寫進緩衝區，呼叫 Flush 後才保證落盤。
// Flush 失敗時檔案會截回上次成功 Flush 的長度，未落盤的資料一併丟棄。
type WAL struct {
	file  *os.File
	buf   *bufio.Writer
	mu    sync.Mutex
	// 已確認落盤的長度
	size  int64
	fsync func() error
}

// NewWAL 開啟或建立一個 WAL 檔案
// O_APPEND 每次寫入時自動跳到文件末尾
func NewWAL(path string) (*WAL, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, FileModeDefault)
	if err != nil {
		return nil, fmt.Errorf("open wal %s: %w", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat wal %s: %w", path, err)
	}
	return &WAL{
		file:  file,
		buf:   bufio.NewWriter(file),
		size:  info.Size(),
		fsync: file.Sync,
	}, nil
}

// Write 編碼一筆資料到緩衝區
// 緩衝區滿時會自動寫入檔案，寫入失敗同樣會丟棄未落盤的資料；編碼失敗則不影響緩衝區
func (w *WAL) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.buf.Write(append(data, '\n')); err != nil {
		return w.discard(err)
	}
	return nil
}

// Flush 把緩衝區寫入檔案並 fsync
func (w *WAL) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flush()
}

func (w *WAL) flush() error {
	if err := w.buf.Flush(); err != nil {
		return w.discard(err)
	}
	if err := w.fsync(); err != nil {
		return w.discard(err)
	}
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	w.size = info.Size()
	return nil
}

// discard 丟棄緩衝區並把檔案截回已落盤的長度，避免重啟時重放失敗的交易
func (w *WAL) discard(cause error) error {
	w.buf.Reset(w.file)
	if err := w.file.Truncate(w.size); err != nil {
		return errors.Join(cause, fmt.Errorf("truncate wal: %w", err))
	}
	return cause
}

// Close 先 Flush 再關閉檔案
func (w *WAL) Close() error {
	if err := w.Flush(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// ReadAll 從頭依序讀取每一筆資料
// callback 收到的是單筆 JSON，不會一次把整個檔案載入記憶體
func (w *WAL) ReadAll(callback func(jsonRaw []byte) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.flush(); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	decoder := json.NewDecoder(w.file)
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode wal entry: %w", err)
		}
		if err := callback(raw); err != nil {
			return err
		}
	}
}
