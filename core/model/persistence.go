package model

import (
	"io"
	"os"

	"github.com/YuminosukeSato/linclass/pkg/errors"
)

// SaveWeights は重みをJSONファイルに保存する
// 検証に失敗した場合、既存のファイルには触れない
//
// 使用例:
//
//	mw, _ := clf.ExportWeights()
//	err := model.SaveWeights(mw, "weights.json")
func SaveWeights(mw *ModelWeights, filename string) (err error) {
	data, err := encodeWeights(mw)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", filename)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "failed to close %s", filename)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.Wrapf(err, "failed to write %s", filename)
	}
	return nil
}

// LoadWeights はJSONファイルから重みを読み込み、検証する
func LoadWeights(filename string) (*ModelWeights, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", filename)
	}
	defer file.Close()

	return ReadWeights(file)
}

// WriteWeights は重みをio.Writerに書き出す
func WriteWeights(mw *ModelWeights, w io.Writer) error {
	data, err := encodeWeights(mw)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write model weights")
	}
	return nil
}

// ReadWeights はio.Readerから重みを読み込み、検証する
func ReadWeights(r io.Reader) (*ModelWeights, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read model weights")
	}
	mw := &ModelWeights{}
	if err := mw.FromJSON(data); err != nil {
		return nil, err
	}
	if err := mw.Validate(); err != nil {
		return nil, err
	}
	return mw, nil
}

// encodeWeights は検証済みの重みを末尾改行付きのJSONにする
func encodeWeights(mw *ModelWeights) ([]byte, error) {
	if mw == nil {
		return nil, errors.NewValueError("model.WriteWeights", "weights must not be nil")
	}
	if err := mw.Validate(); err != nil {
		return nil, err
	}
	data, err := mw.ToJSON()
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
