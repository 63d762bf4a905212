package metadata

import (
	"os"
	"path/filepath"
	"testing"
)

const attributePacket = `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about=""
    xmlns:tiff="http://ns.adobe.com/tiff/1.0/"
    xmlns:xmp="http://ns.adobe.com/xap/1.0/"
    tiff:Make="Apple"
    tiff:Model="iPhone 12"
    xmp:CreateDate="2021-03-04T05:06:07"/>
 </rdf:RDF>
</x:xmpmeta>
<?xpacket end="w"?>`

const elementPacket = `<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about=""
    xmlns:exif="http://ns.adobe.com/exif/1.0/"
    xmlns:photoshop="http://ns.adobe.com/photoshop/1.0/"
    xmlns:dc="http://purl.org/dc/elements/1.1/">
   <photoshop:DateCreated>2019-12-24</photoshop:DateCreated>
   <exif:DateTimeOriginal>2019-12-25T18:00:00+01:00</exif:DateTimeOriginal>
   <dc:description>
    <rdf:Alt>
     <rdf:li xml:lang="x-default">Screenshot</rdf:li>
    </rdf:Alt>
   </dc:description>
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>`

func TestParseXMPAttributes(t *testing.T) {
	meta, err := ParseXMP([]byte(attributePacket))
	if err != nil {
		t.Fatalf("ParseXMP: %v", err)
	}
	if meta.Make != "Apple" || meta.Model != "iPhone 12" {
		t.Fatalf("make/model = %q/%q", meta.Make, meta.Model)
	}
	if meta.CreatedAt.Year() != 2021 || meta.CreatedAt.Month() != 3 {
		t.Fatalf("created = %v", meta.CreatedAt)
	}
	if meta.Screenshot {
		t.Fatal("unexpected screenshot flag")
	}
}

func TestParseXMPElementsPreferOriginalDate(t *testing.T) {
	meta, err := ParseXMP([]byte(elementPacket))
	if err != nil {
		t.Fatalf("ParseXMP: %v", err)
	}
	if meta.CreatedAt.Day() != 25 && meta.CreatedAt.UTC().Day() != 25 {
		t.Fatalf("expected DateTimeOriginal to win, got %v", meta.CreatedAt)
	}
	if meta.Comment != "Screenshot" || !meta.Screenshot {
		t.Fatalf("comment = %q", meta.Comment)
	}
}

func TestXMPExtractorFindsEmbeddedPacket(t *testing.T) {
	body := append([]byte("\x89PNG\r\n\x1a\n....iTXtXML:com.adobe.xmp\x00\x00\x00\x00\x00"), attributePacket...)
	body = append(body, []byte("IEND")...)
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}
	meta, err := NewXMPExtractor().Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if meta.Make != "Apple" {
		t.Fatalf("make = %q", meta.Make)
	}
}

func TestXMPExtractorMissingPacket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.jpg")
	if err := os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF, 0xD9}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewXMPExtractor().Extract(path); err != ErrNoMetadata {
		t.Fatalf("err = %v, want ErrNoMetadata", err)
	}
}
