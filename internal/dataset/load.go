package dataset

import (
	"errors"
	"io/fs"
	"os"
)

// LoadFile reads and parses the document at path. The parser is chosen by
// file extension.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeFileNotFound, Path: path, Message: "file does not exist"}
		}
		return nil, &LoadError{Code: ErrCodeParseFailed, Path: path, Message: "failed to read file", Err: err}
	}

	parser, err := ParserFor(path)
	if err != nil {
		return nil, err
	}

	raw, err := parser.Parse(path, data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Code: ErrCodeParseFailed, Path: path, Message: "failed to parse document", Err: err}
	}

	doc, err := FromMapping(raw)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.Path == "" {
			le.Path = path
		}
		return nil, err
	}
	return doc, nil
}
