package domain

import "strings"

// Row is one flat record from a legacy export, keyed by column name.
// Values are the raw exported strings; literal NULLs are normalised to
// "" by the readers. Rows are immutable once parsed.
type Row map[string]string

// Get returns a trimmed column value, or "" if the column is absent.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// Has reports whether the column is present with a non-empty value.
func (r Row) Has(col string) bool {
	return r.Get(col) != ""
}

// BrandRow is one row of the brand CSV export.
type BrandRow struct {
	LegacyID     string
	Name         string
	LogoFilename string
	Website      string
	Description  string
}

// BrandRowFrom maps a parsed CSV row onto a BrandRow.
func BrandRowFrom(r Row) BrandRow {
	return BrandRow{
		LegacyID:     r.Get("BrandID"),
		Name:         r.Get("BrandName"),
		LogoFilename: r.Get("LogoFilename"),
		Website:      r.Get("Website"),
		Description:  r.Get("Description"),
	}
}

// AwardRow is one row of the award CSV export.
type AwardRow struct {
	LegacyID     string
	Name         string
	LogoFilename string
	Year         string
}

// AwardRowFrom maps a parsed CSV row onto an AwardRow.
func AwardRowFrom(r Row) AwardRow {
	return AwardRow{
		LegacyID:     r.Get("AwardID"),
		Name:         r.Get("AwardName"),
		LogoFilename: r.Get("LogoFilename"),
		Year:         r.Get("Year"),
	}
}

// AwardProductRow is one row of the award-to-product relation export.
type AwardProductRow struct {
	AwardID   string
	ProductID string
}

// AwardProductRowFrom maps a parsed CSV row onto an AwardProductRow.
func AwardProductRowFrom(r Row) AwardProductRow {
	return AwardProductRow{
		AwardID:   r.Get("AwardID"),
		ProductID: r.Get("ProductID"),
	}
}

// StoreRow is one row of the store CSV export.
type StoreRow struct {
	LegacyID     string
	Name         string
	Address      string
	City         string
	Postcode     string
	Phone        string
	Email        string
	Website      string
	Latitude     string
	Longitude    string
	OpeningHours string
}

// StoreRowFrom maps a parsed CSV row onto a StoreRow.
func StoreRowFrom(r Row) StoreRow {
	return StoreRow{
		LegacyID:     r.Get("StoreID"),
		Name:         r.Get("StoreName"),
		Address:      r.Get("Address"),
		City:         r.Get("City"),
		Postcode:     r.Get("Postcode"),
		Phone:        r.Get("Phone"),
		Email:        r.Get("Email"),
		Website:      r.Get("Website"),
		Latitude:     r.Get("Lat"),
		Longitude:    r.Get("Lng"),
		OpeningHours: r.Get("OpeningHours"),
	}
}

// ProductRow is one row of the product table from the SQL dump.
type ProductRow struct {
	LegacyID    string
	Title       string
	SKU         string
	BrandID     string
	Price       string
	ContentHTML string
	ImagePath   string
	URLSegment  string
}

// ProductRowFrom maps a parsed dump row onto a ProductRow.
func ProductRowFrom(r Row) ProductRow {
	return ProductRow{
		LegacyID:    r.Get("ID"),
		Title:       r.Get("Title"),
		SKU:         r.Get("SKU"),
		BrandID:     r.Get("BrandID"),
		Price:       r.Get("Price"),
		ContentHTML: r["Content"],
		ImagePath:   r.Get("ImagePath"),
		URLSegment:  r.Get("URLSegment"),
	}
}

// ProductPDFRow is one row of the product PDF attachment export.
type ProductPDFRow struct {
	ProductID string
	Title     string
	FilePath  string
}

// ProductPDFRowFrom maps a parsed CSV row onto a ProductPDFRow.
func ProductPDFRowFrom(r Row) ProductPDFRow {
	return ProductPDFRow{
		ProductID: r.Get("old_product_id"),
		Title:     r.Get("pdf_title"),
		FilePath:  r.Get("file_path"),
	}
}

// GalleryImageRow is one row of the product gallery relation table.
type GalleryImageRow struct {
	ProductID string
	ImagePath string
	SortOrder string
}

// GalleryImageRowFrom maps a parsed dump row onto a GalleryImageRow.
func GalleryImageRowFrom(r Row) GalleryImageRow {
	return GalleryImageRow{
		ProductID: r.Get("ProductID"),
		ImagePath: r.Get("Filename"),
		SortOrder: r.Get("SortOrder"),
	}
}

// ArticleRow is one row of the blog post table from the SQL dump.
type ArticleRow struct {
	LegacyID    string
	Title       string
	URLSegment  string
	PublishDate string
	Author      string
	ContentHTML string
}

// ArticleRowFrom maps a parsed dump row onto an ArticleRow.
func ArticleRowFrom(r Row) ArticleRow {
	return ArticleRow{
		LegacyID:    r.Get("ID"),
		Title:       r.Get("Title"),
		URLSegment:  r.Get("URLSegment"),
		PublishDate: r.Get("PublishDate"),
		Author:      r.Get("Author"),
		ContentHTML: r["Content"],
	}
}
