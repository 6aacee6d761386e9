package xlsx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const (
	nsMain         = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsRel          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageRel   = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsExtended     = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"

	relWorksheet = nsRel + "/worksheet"
	relStyles    = nsRel + "/styles"
	relDocument  = nsRel + "/officeDocument"
	relExtended  = nsRel + "/extended-properties"
	relCore      = nsPackageRel + "/metadata/core-properties"

	ctRels      = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML       = "application/xml"
	ctWorkbook  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ctWorksheet = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	ctStyles    = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	ctCore      = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtended  = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

// firstCustomNumFmt is the lowest id available to non-built-in formats.
const firstCustomNumFmt = 164

// builtInNumFmts maps format codes to the ids reserved for them.
var builtInNumFmts = map[string]int{
	"General":    0,
	"0":          1,
	"0.00":       2,
	"#,##0":      3,
	"#,##0.00":   4,
	"0%":         9,
	"0.00%":      10,
	"0.00E+00":   11,
	"# ?/?":      12,
	"# ??/??":    13,
	"mm-dd-yy":   14,
	"d-mmm-yy":   15,
	"d-mmm":      16,
	"mmm-yy":     17,
	"h:mm AM/PM": 18,
	"h:mm":       20,
	"h:mm:ss":    21,
	"@":          49,
}

type (
	xmlVal struct {
		Val string `xml:"val,attr"`
	}
	xmlColor struct {
		RGB string `xml:"rgb,attr"`
	}
	xmlFont struct {
		B      *xmlVal   `xml:"b"`
		Sz     xmlVal    `xml:"sz"`
		Color  *xmlColor `xml:"color"`
		Name   xmlVal    `xml:"name"`
		Family xmlVal    `xml:"family"`
	}
	xmlNumFmt struct {
		ID   int    `xml:"numFmtId,attr"`
		Code string `xml:"formatCode,attr"`
	}
	xmlNumFmts struct {
		Count  int         `xml:"count,attr"`
		NumFmt []xmlNumFmt `xml:"numFmt"`
	}
	xmlFonts struct {
		Count int       `xml:"count,attr"`
		Font  []xmlFont `xml:"font"`
	}
	xmlFill struct {
		Pattern struct {
			Type string `xml:"patternType,attr"`
		} `xml:"patternFill"`
	}
	xmlFills struct {
		Count int       `xml:"count,attr"`
		Fill  []xmlFill `xml:"fill"`
	}
	xmlBorder struct {
		Left     struct{} `xml:"left"`
		Right    struct{} `xml:"right"`
		Top      struct{} `xml:"top"`
		Bottom   struct{} `xml:"bottom"`
		Diagonal struct{} `xml:"diagonal"`
	}
	xmlBorders struct {
		Count  int         `xml:"count,attr"`
		Border []xmlBorder `xml:"border"`
	}
	xmlAlignment struct {
		Horizontal string `xml:"horizontal,attr,omitempty"`
		Vertical   string `xml:"vertical,attr,omitempty"`
	}
	xmlXf struct {
		NumFmtID          int           `xml:"numFmtId,attr"`
		FontID            int           `xml:"fontId,attr"`
		FillID            int           `xml:"fillId,attr"`
		BorderID          int           `xml:"borderId,attr"`
		XfID              *int          `xml:"xfId,attr"`
		ApplyNumberFormat bool          `xml:"applyNumberFormat,attr,omitempty"`
		ApplyFont         bool          `xml:"applyFont,attr,omitempty"`
		ApplyAlignment    bool          `xml:"applyAlignment,attr,omitempty"`
		Alignment         *xmlAlignment `xml:"alignment"`
	}
	xmlXfs struct {
		Count int     `xml:"count,attr"`
		Xf    []xmlXf `xml:"xf"`
	}
	xmlCellStyle struct {
		Name      string `xml:"name,attr"`
		XfID      int    `xml:"xfId,attr"`
		BuiltinID int    `xml:"builtinId,attr"`
	}
	xmlCellStyles struct {
		Count     int            `xml:"count,attr"`
		CellStyle []xmlCellStyle `xml:"cellStyle"`
	}
	xmlStyleSheet struct {
		XMLName      xml.Name      `xml:"styleSheet"`
		XMLNS        string        `xml:"xmlns,attr"`
		NumFmts      *xmlNumFmts   `xml:"numFmts"`
		Fonts        xmlFonts      `xml:"fonts"`
		Fills        xmlFills      `xml:"fills"`
		Borders      xmlBorders    `xml:"borders"`
		CellStyleXfs xmlXfs        `xml:"cellStyleXfs"`
		CellXfs      xmlXfs        `xml:"cellXfs"`
		CellStyles   xmlCellStyles `xml:"cellStyles"`
	}

	xmlSheet struct {
		Name    string `xml:"name,attr"`
		SheetID int    `xml:"sheetId,attr"`
		RID     string `xml:"r:id,attr"`
	}
	xmlWorkbook struct {
		XMLName   xml.Name `xml:"workbook"`
		XMLNS     string   `xml:"xmlns,attr"`
		XMLNSR    string   `xml:"xmlns:r,attr"`
		BookViews struct {
			View struct{} `xml:"workbookView"`
		} `xml:"bookViews"`
		Sheets struct {
			Sheet []xmlSheet `xml:"sheet"`
		} `xml:"sheets"`
	}

	xmlRelationship struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	}
	xmlRelationships struct {
		XMLName xml.Name          `xml:"Relationships"`
		XMLNS   string            `xml:"xmlns,attr"`
		Rel     []xmlRelationship `xml:"Relationship"`
	}

	xmlDefault struct {
		Extension   string `xml:"Extension,attr"`
		ContentType string `xml:"ContentType,attr"`
	}
	xmlOverride struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	}
	xmlTypes struct {
		XMLName  xml.Name      `xml:"Types"`
		XMLNS    string        `xml:"xmlns,attr"`
		Default  []xmlDefault  `xml:"Default"`
		Override []xmlOverride `xml:"Override"`
	}

	xmlAppProperties struct {
		XMLName     xml.Name `xml:"Properties"`
		XMLNS       string   `xml:"xmlns,attr"`
		Application string   `xml:"Application"`
	}
)

type fontKey struct {
	family string
	size   float64
	bold   bool
	color  string
}

// buildStyleSheet converts the style table into styles.xml. Fonts and
// number formats are deduplicated separately from the cell formats.
func buildStyleSheet(styles []StyleDescriptor) xmlStyleSheet {
	ss := xmlStyleSheet{XMLNS: nsMain}

	fontIDs := map[fontKey]int{}
	numFmtIDs := map[string]int{}
	var custom []xmlNumFmt
	zero := 0

	for _, d := range styles {
		d = d.Canonical()

		fk := fontKey{d.FontFamily, d.FontSize, d.Bold, d.TextColor}
		fontID, ok := fontIDs[fk]
		if !ok {
			fontID = len(ss.Fonts.Font)
			fontIDs[fk] = fontID
			ss.Fonts.Font = append(ss.Fonts.Font, toFont(fk))
		}

		numFmtID, ok := builtInNumFmts[d.NumberFormat]
		if !ok {
			if numFmtID, ok = numFmtIDs[d.NumberFormat]; !ok {
				numFmtID = firstCustomNumFmt + len(custom)
				numFmtIDs[d.NumberFormat] = numFmtID
				custom = append(custom, xmlNumFmt{ID: numFmtID, Code: d.NumberFormat})
			}
		}

		xf := xmlXf{
			NumFmtID:          numFmtID,
			FontID:            fontID,
			XfID:              &zero,
			ApplyNumberFormat: numFmtID != 0,
			ApplyFont:         fontID != 0,
		}
		if d.HAlign != "" || d.VAlign != "" {
			xf.ApplyAlignment = true
			xf.Alignment = &xmlAlignment{Horizontal: d.HAlign, Vertical: d.VAlign}
		}
		ss.CellXfs.Xf = append(ss.CellXfs.Xf, xf)
	}

	if len(custom) > 0 {
		ss.NumFmts = &xmlNumFmts{Count: len(custom), NumFmt: custom}
	}
	ss.Fonts.Count = len(ss.Fonts.Font)
	ss.Fills.Fill = make([]xmlFill, 2)
	ss.Fills.Fill[0].Pattern.Type = "none"
	ss.Fills.Fill[1].Pattern.Type = "gray125"
	ss.Fills.Count = 2
	ss.Borders = xmlBorders{Count: 1, Border: []xmlBorder{{}}}
	ss.CellStyleXfs = xmlXfs{Count: 1, Xf: []xmlXf{{}}}
	ss.CellXfs.Count = len(ss.CellXfs.Xf)
	ss.CellStyles = xmlCellStyles{Count: 1, CellStyle: []xmlCellStyle{{Name: "Normal"}}}
	return ss
}

func toFont(k fontKey) xmlFont {
	f := xmlFont{
		Sz:     xmlVal{Val: strconv.FormatFloat(k.size, 'f', -1, 64)},
		Name:   xmlVal{Val: k.family},
		Family: xmlVal{Val: "2"},
	}
	if k.bold {
		f.B = &xmlVal{Val: "1"}
	}
	if k.color != "" {
		f.Color = &xmlColor{RGB: "FF" + k.color}
	}
	return f
}

// finalize writes every workbook-level part. Worksheets are already in the
// container.
func (w *Writer) finalize(styles []StyleDescriptor) error {
	n := len(w.sheets)

	var wb xmlWorkbook
	wb.XMLNS, wb.XMLNSR = nsMain, nsRel
	wbRels := xmlRelationships{XMLNS: nsPackageRel}
	types := xmlTypes{
		XMLNS: nsContentTypes,
		Default: []xmlDefault{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: ctXML},
		},
		Override: []xmlOverride{{PartName: "/xl/workbook.xml", ContentType: ctWorkbook}},
	}
	for i, name := range w.sheets {
		rid := "rId" + strconv.Itoa(i+1)
		wb.Sheets.Sheet = append(wb.Sheets.Sheet, xmlSheet{Name: name, SheetID: i + 1, RID: rid})
		wbRels.Rel = append(wbRels.Rel, xmlRelationship{
			ID: rid, Type: relWorksheet, Target: fmt.Sprintf("worksheets/sheet%d.xml", i+1),
		})
		types.Override = append(types.Override, xmlOverride{
			PartName: fmt.Sprintf("/xl/worksheets/sheet%d.xml", i+1), ContentType: ctWorksheet,
		})
	}
	wbRels.Rel = append(wbRels.Rel, xmlRelationship{
		ID: "rId" + strconv.Itoa(n+1), Type: relStyles, Target: "styles.xml",
	})
	types.Override = append(types.Override,
		xmlOverride{PartName: "/xl/styles.xml", ContentType: ctStyles},
		xmlOverride{PartName: "/docProps/core.xml", ContentType: ctCore},
		xmlOverride{PartName: "/docProps/app.xml", ContentType: ctExtended},
	)
	rootRels := xmlRelationships{XMLNS: nsPackageRel, Rel: []xmlRelationship{
		{ID: "rId1", Type: relDocument, Target: "xl/workbook.xml"},
		{ID: "rId2", Type: relCore, Target: "docProps/core.xml"},
		{ID: "rId3", Type: relExtended, Target: "docProps/app.xml"},
	}}

	parts := []struct {
		name string
		v    any
	}{
		{"xl/styles.xml", buildStyleSheet(styles)},
		{"xl/workbook.xml", wb},
		{"xl/_rels/workbook.xml.rels", wbRels},
		{"docProps/app.xml", xmlAppProperties{XMLNS: nsExtended, Application: "simreport"}},
		{"_rels/.rels", rootRels},
		{"[Content_Types].xml", types},
	}
	for _, p := range parts {
		if err := w.writePart(p.name, p.v); err != nil {
			return err
		}
	}
	return w.writeCore()
}

func (w *Writer) writePart(name string, v any) error {
	part, err := w.zw.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(part, xml.Header); err != nil {
		return err
	}
	if err := xml.NewEncoder(part).Encode(v); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// writeCore writes docProps/core.xml. Its prefixed elements are written as
// text because encoding/xml cannot emit fixed namespace prefixes.
func (w *Writer) writeCore() error {
	part, err := w.zw.Create("docProps/core.xml")
	if err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
		` xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	writeElem(&b, "dc:title", w.props.Title)
	writeElem(&b, "dc:creator", w.props.Creator)
	created := w.props.Created.UTC().Format(time.RFC3339)
	b.WriteString(`<dcterms:created xsi:type="dcterms:W3CDTF">` + created + `</dcterms:created>`)
	b.WriteString(`</cp:coreProperties>`)
	_, err = io.WriteString(part, b.String())
	return err
}

func writeElem(b *strings.Builder, name, text string) {
	if text == "" {
		return
	}
	b.WriteString("<" + name + ">")
	_ = xml.EscapeText(b, []byte(text))
	b.WriteString("</" + name + ">")
}
