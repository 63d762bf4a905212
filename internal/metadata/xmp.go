package metadata

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"dcimsort/internal/media"
)

const (
	nsTIFF      = "http://ns.adobe.com/tiff/1.0/"
	nsExif      = "http://ns.adobe.com/exif/1.0/"
	nsXMP       = "http://ns.adobe.com/xap/1.0/"
	nsPhotoshop = "http://ns.adobe.com/photoshop/1.0/"
	nsDC        = "http://purl.org/dc/elements/1.1/"
)

var (
	xmpStart = []byte("<x:xmpmeta")
	xmpEnd   = []byte("</x:xmpmeta>")
)

// xmpDateLayouts covers the ISO 8601 subsets XMP writers emit.
var xmpDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// XMPExtractor locates the embedded XMP packet and reads the fields that
// matter for sorting.
type XMPExtractor struct {
	priority int
	maxScan  int64
}

func NewXMPExtractor() *XMPExtractor {
	return &XMPExtractor{priority: 50, maxScan: 8 << 20}
}

func (e *XMPExtractor) Name() string { return "xmp-packet" }

func (e *XMPExtractor) Priority() int { return e.priority }

func (e *XMPExtractor) Supports(container Container, fileType media.FileType) bool {
	return container == ContainerXMP && fileType.Supported()
}

func (e *XMPExtractor) Extract(path string) (media.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return media.Metadata{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, e.maxScan))
	if err != nil {
		return media.Metadata{}, fmt.Errorf("read %s: %w", path, err)
	}
	packet, ok := findPacket(data)
	if !ok {
		return media.Metadata{}, ErrNoMetadata
	}
	meta, err := ParseXMP(packet)
	if err != nil {
		return media.Metadata{}, err
	}
	if meta.IsZero() {
		return meta, ErrNoMetadata
	}
	return meta, nil
}

func findPacket(data []byte) ([]byte, bool) {
	start := bytes.Index(data, xmpStart)
	if start < 0 {
		return nil, false
	}
	end := bytes.Index(data[start:], xmpEnd)
	if end < 0 {
		return nil, false
	}
	return data[start : start+end+len(xmpEnd)], true
}

// ParseXMP reads make, model, capture date and comment from an XMP packet.
// Properties may be written as rdf:Description attributes or as child
// elements, with language alternatives resolved to their first entry.
func ParseXMP(packet []byte) (media.Metadata, error) {
	var (
		meta    media.Metadata
		dates   = map[string]string{}
		comment = map[string]string{}
	)
	assign := func(name xml.Name, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		switch name.Space + name.Local {
		case nsTIFF + "Make":
			meta.Make = value
		case nsTIFF + "Model":
			meta.Model = value
		case nsExif + "DateTimeOriginal", nsXMP + "CreateDate", nsPhotoshop + "DateCreated":
			if _, seen := dates[name.Local]; !seen {
				dates[name.Local] = value
			}
		case nsExif + "UserComment", nsDC + "description":
			if _, seen := comment[name.Local]; !seen {
				comment[name.Local] = value
			}
		}
	}

	decoder := xml.NewDecoder(bytes.NewReader(packet))
	var (
		current *xml.Name
		depth   int
		text    strings.Builder
	)
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return media.Metadata{}, fmt.Errorf("parse xmp: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			for _, attr := range t.Attr {
				assign(attr.Name, attr.Value)
			}
			if current != nil {
				depth++
				continue
			}
			if isTracked(t.Name) {
				name := t.Name
				current = &name
				depth = 0
				text.Reset()
			}
		case xml.CharData:
			if current != nil && text.Len() == 0 {
				text.Write(bytes.TrimSpace(t))
			}
		case xml.EndElement:
			if current == nil {
				continue
			}
			if depth > 0 {
				depth--
				continue
			}
			assign(*current, text.String())
			current = nil
		}
	}

	for _, key := range []string{"DateTimeOriginal", "CreateDate", "DateCreated"} {
		if value, ok := dates[key]; ok {
			if created, ok := parseXMPDate(value); ok {
				meta.CreatedAt = created
				break
			}
		}
	}
	if value, ok := comment["UserComment"]; ok {
		meta.Comment = value
	} else if value, ok := comment["description"]; ok {
		meta.Comment = value
	}
	meta.Screenshot = meta.Comment == screenshotComment
	return meta, nil
}

func isTracked(name xml.Name) bool {
	switch name.Space + name.Local {
	case nsTIFF + "Make", nsTIFF + "Model",
		nsExif + "DateTimeOriginal", nsXMP + "CreateDate", nsPhotoshop + "DateCreated",
		nsExif + "UserComment", nsDC + "description":
		return true
	default:
		return false
	}
}

func parseXMPDate(value string) (time.Time, bool) {
	for _, layout := range xmpDateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
