// internal/tuner/usb/database.go
package usb

import (
	"github.com/google/gousb"

	"cablescan-service/internal/model"
)

// DeviceDatabase contains known USB DVB receivers
type DeviceDatabase struct {
	vendors map[gousb.ID]*VendorInfo
}

// VendorInfo contains vendor-specific information
type VendorInfo struct {
	Name     string
	products map[gousb.ID]*ProductInfo
}

// ProductInfo describes one receiver model
type ProductInfo struct {
	Model    string
	Delivery []model.DeliverySystem
}

// SupportsCable reports whether the receiver has a DVB-C frontend
func (p *ProductInfo) SupportsCable() bool {
	for _, d := range p.Delivery {
		if d == model.DeliveryCable {
			return true
		}
	}
	return false
}

// NewDeviceDatabase creates and initializes the device database
func NewDeviceDatabase() *DeviceDatabase {
	db := &DeviceDatabase{
		vendors: make(map[gousb.ID]*VendorInfo),
	}
	db.initializeDatabase()
	return db
}

func (db *DeviceDatabase) initializeDatabase() {
	ct2 := []model.DeliverySystem{model.DeliveryCable, model.DeliveryTerrestrial}
	cable := []model.DeliverySystem{model.DeliveryCable}
	sat := []model.DeliverySystem{model.DeliverySatellite}

	db.add(0x2040, "Hauppauge", map[gousb.ID]*ProductInfo{
		0x0265: {Model: "WinTV-dualHD", Delivery: ct2},
		0x8265: {Model: "WinTV-dualHD (ATSC)", Delivery: ct2},
		0x0264: {Model: "WinTV-soloHD", Delivery: ct2},
	})
	db.add(0x2013, "PCTV Systems", map[gousb.ID]*ProductInfo{
		0x025f: {Model: "tripleStick 292e", Delivery: ct2},
		0x0251: {Model: "QuatroStick nano 520e", Delivery: ct2},
	})
	db.add(0x0b48, "TechnoTrend", map[gousb.ID]*ProductInfo{
		0x3012: {Model: "TT-connect CT-3650", Delivery: ct2},
		0x3014: {Model: "TT-TVStick CT2-4400", Delivery: ct2},
		0x3006: {Model: "TT-connect S-2400", Delivery: sat},
	})
	db.add(0x0572, "DVBSky", map[gousb.ID]*ProductInfo{
		0x0320: {Model: "T330", Delivery: ct2},
		0x680c: {Model: "T680CI", Delivery: ct2},
		0x6831: {Model: "S960", Delivery: sat},
	})
	db.add(0x0ccd, "TerraTec", map[gousb.ID]*ProductInfo{
		0x10b2: {Model: "Cinergy HTC Stick HD", Delivery: cable},
	})
}

func (db *DeviceDatabase) add(vendor gousb.ID, name string, products map[gousb.ID]*ProductInfo) {
	db.vendors[vendor] = &VendorInfo{Name: name, products: products}
}

// IsKnownVendor checks if vendor is in database
func (db *DeviceDatabase) IsKnownVendor(vendorID gousb.ID) bool {
	_, exists := db.vendors[vendorID]
	return exists
}

// GetVendorInfo returns vendor information
func (db *DeviceDatabase) GetVendorInfo(vendorID gousb.ID) *VendorInfo {
	return db.vendors[vendorID]
}

// GetProductInfo returns product information
func (vi *VendorInfo) GetProductInfo(productID gousb.ID) *ProductInfo {
	return vi.products[productID]
}

// Lookup returns the vendor and product of a known receiver
func (db *DeviceDatabase) Lookup(vendorID, productID gousb.ID) (*VendorInfo, *ProductInfo) {
	vendor := db.vendors[vendorID]
	if vendor == nil {
		return nil, nil
	}
	product := vendor.products[productID]
	if product == nil {
		return nil, nil
	}
	return vendor, product
}
