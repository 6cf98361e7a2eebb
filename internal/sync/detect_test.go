package sync

import (
	"testing"

	"github.com/bloxtools/bloxsync/internal/mapping"
	"github.com/bloxtools/bloxsync/internal/model"
)

func syncedEntry(p model.Product, imageHash string) *mapping.Entry {
	entry := mapping.NewEntry(1000)
	recordSync(entry, p, imageHash)
	return entry
}

func TestChanged(t *testing.T) {
	base := model.Product{
		Type:        model.GamePass,
		Name:        "VIP",
		Price:       500,
		Description: "VIP perks",
	}

	tests := []struct {
		name      string
		mutate    func(*model.Product)
		imageHash string
		want      bool
	}{
		{"identical", func(*model.Product) {}, "", false},
		{"name changed", func(p *model.Product) { p.Name = "VIP+" }, "", true},
		{"price changed", func(p *model.Product) { p.Price = 600 }, "", true},
		{"description changed", func(p *model.Product) { p.Description = "More perks" }, "", true},
		{"description cleared", func(p *model.Product) { p.Description = "" }, "", true},
		{"offsale toggled", func(p *model.Product) { p.Offsale = true }, "", true},
		{"image added", func(p *model.Product) { p.Image = "icon.png" }, "deadbeef", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := syncedEntry(base, "")
			p := base
			tt.mutate(&p)
			if got := changed(p, entry, tt.imageHash); got != tt.want {
				t.Errorf("changed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChanged_DevProductIgnoresOffsale(t *testing.T) {
	p := model.Product{Type: model.DevProduct, Name: "Coins", Price: 10, Offsale: true}
	entry := syncedEntry(p, "")

	// The record never stores offsale for dev products, so the flag must
	// not register as a perpetual difference.
	if changed(p, entry, "") {
		t.Error("offsale on a dev product must not register as a change")
	}

	p.Price = 20
	if !changed(p, entry, "") {
		t.Error("real changes must still be detected")
	}
}

func TestChanged_NilEntry(t *testing.T) {
	p := model.Product{Type: model.DevProduct, Name: "Coins", Price: 10}
	if !changed(p, nil, "") {
		t.Error("a product with no record is always changed")
	}
}

func TestChanged_ImageDigestMoved(t *testing.T) {
	p := model.Product{Type: model.DevProduct, Name: "Coins", Price: 10, Image: "icon.png"}
	entry := syncedEntry(p, "oldhash")

	if changed(p, entry, "oldhash") {
		t.Error("same digest should not register as a change")
	}
	if !changed(p, entry, "newhash") {
		t.Error("moved digest should register as a change")
	}
}

func TestChanged_ImageRemoved(t *testing.T) {
	withImage := model.Product{Type: model.DevProduct, Name: "Coins", Price: 10, Image: "icon.png"}
	entry := syncedEntry(withImage, "somehash")

	withoutImage := withImage
	withoutImage.Image = ""
	if !changed(withoutImage, entry, "") {
		t.Error("removing the image is a change")
	}
}

func TestAssetChanged_IndependentOfScalars(t *testing.T) {
	p := model.Product{Type: model.DevProduct, Name: "Coins", Price: 10, Image: "icon.png"}
	entry := syncedEntry(p, "samehash")

	// Price moves, image does not.
	p.Price = 20
	if !changed(p, entry, "samehash") {
		t.Error("price change should be detected")
	}
	if assetChanged(entry, "samehash") {
		t.Error("unchanged asset must not be flagged for re-upload")
	}
}

func TestAssetChanged_NilEntry(t *testing.T) {
	if assetChanged(nil, "") {
		t.Error("no entry and no image means no asset change")
	}
	if !assetChanged(nil, "somehash") {
		t.Error("no entry but an image present means the asset must upload")
	}
}
