package models

import "strings"

// User is a customer or administrator.
type User struct {
	Model
	SoftDeletes
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Addresses []Address `gorm:"polymorphic:Addressable;polymorphicValue:user" json:"addresses,omitempty"`
	Orders    []Order   `json:"orders,omitempty"`
}

func (User) TableName() string { return UsersTable }

// Address belongs to a user or an order.
type Address struct {
	Model
	AddressableType  string `gorm:"size:32;index:idx_addressable" json:"addressable_type"`
	AddressableID    uint   `gorm:"index:idx_addressable" json:"addressable_id"`
	Alias            string `gorm:"size:255" json:"alias"`
	FirstName        string `gorm:"size:255" json:"first_name"`
	LastName         string `gorm:"size:255" json:"last_name"`
	Company          string `gorm:"size:255" json:"company"`
	Country          string `gorm:"size:2" json:"country"`
	State            string `gorm:"size:255" json:"state"`
	City             string `gorm:"size:255" json:"city"`
	Postcode         string `gorm:"size:32" json:"postcode"`
	Address          string `gorm:"size:255" json:"address"`
	AddressSecondary string `gorm:"size:255" json:"address_secondary"`
	Email            string `gorm:"size:255" json:"email"`
	Phone            string `gorm:"size:64" json:"phone"`
	Default          bool   `gorm:"column:is_default;not null;default:false" json:"default"`
}

func (Address) TableName() string { return AddressesTable }

// Name joins the first and last name.
func (a Address) Name() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Medium is an uploaded file.
type Medium struct {
	Model
	Name     string `gorm:"size:255;not null" json:"name"`
	FileName string `gorm:"size:255;not null" json:"file_name"`
	MimeType string `gorm:"size:255;index" json:"mime_type"`
	Size     int64  `gorm:"not null;default:0" json:"size"`
	Disk     string `gorm:"size:32;not null" json:"disk"`
	Path     string `gorm:"size:64;not null" json:"path"`
	Width    *int   `json:"width"`
	Height   *int   `json:"height"`
}

func (Medium) TableName() string { return MediaTable }

// Type is the top level of the mime type, e.g. "image".
func (m Medium) Type() string {
	t, _, _ := strings.Cut(m.MimeType, "/")
	return t
}

// IsImage reports whether the medium is a raster image.
func (m Medium) IsImage() bool {
	return m.Type() == "image" && m.MimeType != "image/svg+xml"
}

// Key is the storage key of the original file.
func (m Medium) Key() string {
	return m.Path + "/" + m.FileName
}

// All lists every model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{}, &Category{}, &Product{}, &Variant{},
		&Order{}, &Item{}, &Shipping{}, &Address{}, &Medium{},
	}
}
