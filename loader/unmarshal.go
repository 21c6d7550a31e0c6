package loader

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/brettbedarf/vfshell/filesystem"
	"github.com/brettbedarf/vfshell/internal/source"
	"github.com/brettbedarf/vfshell/internal/util"
	"golang.org/x/net/html/charset"
)

// LoadFile reads and parses the tree description at p, a local path or an
// http(s) URL.
func LoadFile(p string) (*filesystem.Directory, error) {
	return LoadContext(context.Background(), p)
}

// LoadContext is [LoadFile] with a context bounding a remote fetch.
func LoadContext(ctx context.Context, p string) (*filesystem.Directory, error) {
	f, err := source.Open(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("open tree description: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load parses a tree description and returns its root directory.
//
// The document element must be <vfs>. If it holds a <dir name="/"> element the
// content of the first such element becomes the root's content, otherwise all
// top-level elements are attached to the root. Any error aborts the whole
// load; there is never a partial tree.
func Load(r io.Reader) (*filesystem.Directory, error) {
	logger := util.GetLogger("Loader.Load")

	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var doc elementDTO
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse tree description: %w", err)
	}
	if err := ensureTrailingMisc(dec); err != nil {
		return nil, fmt.Errorf("parse tree description: %w", err)
	}
	if !strings.EqualFold(doc.XMLName.Local, containerTag) {
		return nil, fmt.Errorf("%w, got <%s>", ErrNoContainer, doc.XMLName.Local)
	}

	content := doc.Children
	if top, ok := findRootDir(doc.Children); ok {
		logger.Trace().Msg("Using explicit root directory element")
		content = top.Children
	}

	root := filesystem.NewRoot()
	if err := addChildren(root, filesystem.Separator, content); err != nil {
		return nil, err
	}

	st := filesystem.CountTree(root)
	logger.Debug().
		Int("directories", st.Dirs).
		Int("files", st.Files).
		Int("maxDepth", st.MaxDepth).
		Msg("Loaded tree description")
	return root, nil
}

// addChildren converts elems into nodes below dir. base is dir's absolute
// path and only used for error messages.
func addChildren(dir *filesystem.Directory, base string, elems []elementDTO) error {
	logger := util.GetLogger("Loader.addChildren")

	for _, elem := range elems {
		tag := strings.ToLower(elem.XMLName.Local)
		switch tag {
		case dirTag, directoryTag:
			if elem.Name == "" {
				return fmt.Errorf("<%s> in %s: %w", elem.XMLName.Local, base, ErrMissingName)
			}
			sub := filesystem.NewDirectory(elem.Name)
			dir.Put(sub)
			if err := addChildren(sub, path.Join(base, elem.Name), elem.Children); err != nil {
				return err
			}

		case fileTag:
			if elem.Name == "" {
				return fmt.Errorf("<%s> in %s: %w", elem.XMLName.Local, base, ErrMissingName)
			}
			data, err := decodePayload(elem.Text, elem.Encoding)
			if err != nil {
				return fmt.Errorf("file %s: %w", path.Join(base, elem.Name), err)
			}
			dir.Put(filesystem.NewFile(elem.Name, data))

		default:
			logger.Trace().Str("tag", elem.XMLName.Local).Str("parent", base).Msg("Ignoring unknown element")
		}
	}
	return nil
}

func findRootDir(elems []elementDTO) (elementDTO, bool) {
	for _, elem := range elems {
		tag := strings.ToLower(elem.XMLName.Local)
		if (tag == dirTag || tag == directoryTag) && elem.Name == filesystem.RootName {
			return elem, true
		}
	}
	return elementDTO{}, false
}

// ensureTrailingMisc rejects anything but comments, processing instructions
// and whitespace after the document element.
func ensureTrailingMisc(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst, xml.Directive:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return errors.New("junk after document element")
			}
		default:
			return errors.New("junk after document element")
		}
	}
}
