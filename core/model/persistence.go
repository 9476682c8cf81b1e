package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/YuminosukeSato/nlplearn/pkg/errors"
)

// FormatTag は保存形式の先頭に書かれる識別子
const FormatTag = "nlplearn/linear-model/v1"

// SequenceEncoder はモデルを順序付きgobストリームとして書き出す。
// フィールドは書いた順にしか読めないため、読み手は同じ順序で Decode する必要がある。
type SequenceEncoder struct {
	enc *gob.Encoder
}

// NewSequenceEncoder は w に書き込むエンコーダを作成する
func NewSequenceEncoder(w io.Writer) *SequenceEncoder {
	return &SequenceEncoder{enc: gob.NewEncoder(w)}
}

// WriteHeader はフォーマットタグとモデル種別を書き込む
func (e *SequenceEncoder) WriteHeader(kind string) error {
	if err := e.Encode("format", FormatTag); err != nil {
		return err
	}
	return e.Encode("kind", kind)
}

// Encode は一つのフィールドを書き込む。field はエラーメッセージ用。
func (e *SequenceEncoder) Encode(field string, v interface{}) error {
	if err := e.enc.Encode(v); err != nil {
		return errors.Wrapf(err, "failed to encode %s", field)
	}
	return nil
}

// SequenceDecoder は SequenceEncoder が書いたストリームを読み込む
type SequenceDecoder struct {
	dec *gob.Decoder
}

// NewSequenceDecoder は r から読み込むデコーダを作成する
func NewSequenceDecoder(r io.Reader) *SequenceDecoder {
	return &SequenceDecoder{dec: gob.NewDecoder(r)}
}

// ReadHeader はフォーマットタグを検証し、モデル種別を返す
func (d *SequenceDecoder) ReadHeader() (string, error) {
	var tag string
	if err := d.Decode("format", &tag); err != nil {
		return "", err
	}
	if tag != FormatTag {
		return "", errors.NewModelError("ReadHeader", "unsupported model format", errors.Newf("got %q", tag))
	}
	var kind string
	if err := d.Decode("kind", &kind); err != nil {
		return "", err
	}
	return kind, nil
}

// Decode は次のフィールドを v に読み込む
func (d *SequenceDecoder) Decode(field string, v interface{}) error {
	if err := d.dec.Decode(v); err != nil {
		return errors.Wrapf(err, "failed to decode %s", field)
	}
	return nil
}

// SaveModel はファイルを作成し、write にエンコーダを渡す
//
// 使用例:
//
//	err := model.SaveModel("pos.model", m.Encode)
func SaveModel(filename string, write func(*SequenceEncoder) error) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	if err := write(NewSequenceEncoder(file)); err != nil {
		_ = file.Close()
		return err
	}
	return errors.Wrap(file.Close(), "failed to close file")
}

// LoadModel はファイルを開き、read にデコーダを渡す
func LoadModel(filename string, read func(*SequenceDecoder) error) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer file.Close()
	return read(NewSequenceDecoder(file))
}
