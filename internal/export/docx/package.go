package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"time"
)

// zipEpoch pins entry timestamps so identical input gives identical bytes.
var zipEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

const (
	nsRels      = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsTypes     = "http://schemas.openxmlformats.org/package/2006/content-types"
	relDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relImage    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relFooter   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
)

// --- mini XML model for package parts ---
type contentTypes struct {
	XMLName   xml.Name     `xml:"Types"`
	Xmlns     string       `xml:"xmlns,attr"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}
type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}
type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Xmlns   string         `xml:"xmlns,attr"`
	Rels    []relationship `xml:"Relationship"`
}
type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type mediaPart struct {
	relID  string
	name   string // media/image1.png
	format string
	data   []byte
}

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// buildPackage zips the document, footer and media into a .docx container.
func buildPackage(w io.Writer, document, footer string, media []mediaPart) error {
	zw := zip.NewWriter(w)

	ct := contentTypes{
		Xmlns: nsTypes,
		Defaults: []ctDefault{
			{Extension: "rels", ContentType: "application/vnd.openxmlformats-package.relationships+xml"},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []ctOverride{
			{PartName: "/word/document.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
			{PartName: "/word/footer1.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"},
		},
	}
	seen := map[string]bool{}
	for _, m := range media {
		if seen[m.format] {
			continue
		}
		seen[m.format] = true
		ct.Defaults = append(ct.Defaults, ctDefault{Extension: m.format, ContentType: imageContentTypes[m.format]})
	}

	rootRels := relationships{Xmlns: nsRels, Rels: []relationship{
		{ID: "rId1", Type: relDocument, Target: "word/document.xml"},
	}}
	docRels := relationships{Xmlns: nsRels, Rels: []relationship{
		{ID: footerRelID, Type: relFooter, Target: "footer1.xml"},
	}}
	for _, m := range media {
		docRels.Rels = append(docRels.Rels, relationship{ID: m.relID, Type: relImage, Target: m.name})
	}

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", marshalXML(ct)},
		{"_rels/.rels", marshalXML(rootRels)},
		{"word/document.xml", []byte(document)},
		{"word/_rels/document.xml.rels", marshalXML(docRels)},
		{"word/footer1.xml", []byte(footer)},
	}
	for _, m := range media {
		parts = append(parts, struct {
			name string
			data []byte
		}{"word/" + m.name, m.data})
	}

	for _, p := range parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate, Modified: zipEpoch})
		if err != nil {
			return err
		}
		if _, err := fw.Write(p.data); err != nil {
			return err
		}
	}
	return zw.Close()
}

func marshalXML(v interface{}) []byte {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	b, _ := xml.Marshal(v)
	buf.Write(b)
	return buf.Bytes()
}
