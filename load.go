package shapeyaml

import (
	"errors"

	"github.com/reoring/shapeyaml/internal/issue"
	"github.com/reoring/shapeyaml/node"
)

// LoadDocument parses data into the node tree of its single document.
func LoadDocument(data []byte, opts ...ParseOpt) (*node.Node, error) {
	opt := resolveOpt(opts)
	root, err := loadRoot(data, opt)
	if err != nil {
		return nil, toIssues(err)
	}
	return root, nil
}

// LoadDocuments parses data into the node trees of all its documents, in
// order. MaxBytes and Driver apply; the decoding limits do not.
func LoadDocuments(data []byte, opts ...ParseOpt) ([]*node.Node, error) {
	opt := resolveOpt(opts)
	if err := checkSize(data, opt); err != nil {
		return nil, toIssues(err)
	}
	drv := opt.driver()
	docs, err := loadAll(drv, data)
	if err != nil {
		return nil, toIssues(err)
	}
	opt.logger().Debug("documents loaded", "driver", drv.Name(), "documents", len(docs))
	return docs, nil
}

func loadRoot(data []byte, opt ParseOpt) (*node.Node, error) {
	if err := checkSize(data, opt); err != nil {
		return nil, err
	}
	drv := opt.driver()
	root, err := loadSingle(drv, data)
	if err != nil {
		return nil, err
	}
	opt.logger().Debug("document loaded", "driver", drv.Name(), "bytes", len(data))
	return root, nil
}

func checkSize(data []byte, opt ParseOpt) error {
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return issue.New(issue.CodeTruncated, "input of %d bytes exceeds limit of %d", len(data), opt.MaxBytes).
			With("size", len(data)).With("max", opt.MaxBytes)
	}
	return nil
}

// loadSingle runs drv and insists on exactly one document.
func loadSingle(drv Driver, data []byte) (*node.Node, error) {
	docs, err := loadAll(drv, data)
	if err != nil {
		return nil, err
	}
	if len(docs) != 1 {
		return nil, issue.New(issue.CodeFormat, "expected exactly one document, got %d", len(docs)).
			With("documents", len(docs))
	}
	return docs[0], nil
}

func loadAll(drv Driver, data []byte) ([]*node.Node, error) {
	docs, err := drv.Load(data)
	if err != nil {
		var ie *issue.Error
		if errors.As(err, &ie) {
			return nil, ie
		}
		return nil, issue.New(issue.CodeFormat, "%v", err).Wrap(err)
	}
	return docs, nil
}
