package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuanna8687/price-tracker/models"
)

const didongvietPage = `<!doctype html>
<html><head><title>Phone X | Di Dong Viet</title></head>
<body>
  <div class="product-name"><h1 class="product-title">Phone X</h1></div>
  <div class="product-price">
    <span class="price-current">12.990.000₫</span>
    <span class="price-old">14.990.000₫</span>
  </div>
  <div class="product-image"><img src="/media/phone-x.jpg" alt="Phone X"></div>
  <div class="product-summary">Short</div>
  <div class="product-info">Màn hình 6.1 inch, chip mạnh mẽ, pin dùng cả ngày.</div>
  <script>var stock = "out of stock";</script>
</body></html>`

func TestParse_DiDongViet(t *testing.T) {
	got, err := Parse(DiDongViet, didongvietPage, "https://didongviet.vn/phone-x.html")
	require.NoError(t, err)

	assert.Equal(t, "Phone X", got.Title)
	require.NotNil(t, got.Price)
	assert.Equal(t, float64(12990000), *got.Price)
	require.NotNil(t, got.OriginalPrice)
	assert.Equal(t, float64(14990000), *got.OriginalPrice)
	assert.Equal(t, "VND", got.Currency)
	assert.Equal(t, "https://didongviet.vn/media/phone-x.jpg", got.ImageURL)
	assert.True(t, got.IsAvailable, "script text must not count as page text")
	assert.Equal(t, "Màn hình 6.1 inch, chip mạnh mẽ, pin dùng cả ngày.", got.Description)
}

func TestParse_TheGioiDiDong(t *testing.T) {
	page := `<html><body>
		<section class="detail"><h1>Điện thoại Galaxy S24</h1></section>
		<div class="box-price">
			<p class="box-price-present">22.990.000₫</p>
			<p class="box-price-old">25.990.000₫</p>
		</div>
		<div class="slider-detail"><img data-src="//cdn.tgdd.vn/s24.jpg"></div>
	</body></html>`

	got, err := Parse(TheGioiDiDong, page, "https://www.thegioididong.com/dtdd/galaxy-s24")
	require.NoError(t, err)

	assert.Equal(t, "Điện thoại Galaxy S24", got.Title)
	require.NotNil(t, got.Price)
	assert.Equal(t, float64(22990000), *got.Price)
	require.NotNil(t, got.OriginalPrice)
	assert.Equal(t, float64(25990000), *got.OriginalPrice)
	assert.Equal(t, "https://cdn.tgdd.vn/s24.jpg", got.ImageURL)
	assert.Empty(t, got.Description)
}

func TestParse_PriceSkipsUnparsableCandidates(t *testing.T) {
	page := `<html><body><h1>Phone</h1>
		<div class="product-price"><span class="price">Liên hệ</span></div>
		<span class="current-price">5.490.000 đ</span>
	</body></html>`

	got, err := Parse(DiDongViet, page, "https://didongviet.vn/p")
	require.NoError(t, err)

	require.NotNil(t, got.Price)
	assert.Equal(t, float64(5490000), *got.Price)
	assert.Nil(t, got.OriginalPrice)
}

func TestParse_EmptyPageIsNotAnError(t *testing.T) {
	for _, site := range Sites() {
		t.Run(site.String(), func(t *testing.T) {
			got, err := Parse(site, "", "https://example.com/p")
			require.NoError(t, err)

			assert.Equal(t, models.UnknownTitle, got.Title)
			assert.Nil(t, got.Price)
			assert.Nil(t, got.OriginalPrice)
			assert.Equal(t, "VND", got.Currency)
			assert.Empty(t, got.ImageURL)
			assert.Empty(t, got.Description)
			assert.True(t, got.IsAvailable)
		})
	}
}

func TestParse_OutOfStockOnEverySite(t *testing.T) {
	page := `<html><body><h1 class="product-title">Phone X</h1>
		<span class="price-current">12.990.000₫</span>
		<div class="stock"><b>Hết Hàng</b> tạm thời</div>
	</body></html>`

	for _, site := range Sites() {
		t.Run(site.String(), func(t *testing.T) {
			got, err := Parse(site, page, "https://example.com/p")
			require.NoError(t, err)
			assert.False(t, got.IsAvailable)
		})
	}
}

func TestParse_UnavailablePhrases(t *testing.T) {
	tests := []struct {
		name string
		site Site
		body string
		want bool
	}{
		{"english", Generic, "<p>Currently OUT OF STOCK</p>", false},
		{"discontinued", DiDongViet, "<p>Sản phẩm ngừng kinh doanh</p>", false},
		{"temporarily", CellphoneS, "<p>Temporarily unavailable</p>", false},
		{"site extra", TheGioiDiDong, "<p>Hàng sắp về</p>", false},
		{"site extra ignored elsewhere", DiDongViet, "<p>Hàng sắp về</p>", true},
		{"combining diacritics", Generic, "<p>he\u0302\u0301t ha\u0300ng</p>", false},
		{"in stock", FPTShop, "<p>Còn hàng</p>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.site, "<html><body>"+tt.body+"</body></html>", "https://example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.IsAvailable)
		})
	}
}

func TestParse_GenericNeverGuessesPrice(t *testing.T) {
	page := `<html><head><title>Some Shop - Gadget</title></head><body>
		<h1>Shop</h1>
		<div class="product-price">1.250.000₫</div>
		<span class="total-amount">99</span>
		<div class="main-image"><img src="img/gadget.png"></div>
	</body></html>`

	got, err := Parse(Generic, page, "https://shop.example.com/gadget")
	require.NoError(t, err)

	assert.Nil(t, got.Price)
	assert.Nil(t, got.OriginalPrice)
	// "Shop" is too short for a generic title; <title> is next in line.
	assert.Equal(t, "Some Shop - Gadget", got.Title)
	assert.Equal(t, "https://shop.example.com/gadget/img/gadget.png", got.ImageURL)
	assert.Empty(t, got.Description)
}

func TestParse_DescriptionTruncated(t *testing.T) {
	long := strings.Repeat("\u1eaf", 600)
	page := `<html><body><div class="product-description">` + long + `</div></body></html>`

	got, err := Parse(DiDongViet, page, "https://didongviet.vn/p")
	require.NoError(t, err)

	assert.Equal(t, strings.Repeat("\u1eaf", 500)+"...", got.Description)
}

func TestParse_DescriptionAtLimitKept(t *testing.T) {
	exact := strings.Repeat("a", 500)
	page := `<html><body><div class="product-description">` + exact + `</div></body></html>`

	got, err := Parse(DiDongViet, page, "https://didongviet.vn/p")
	require.NoError(t, err)

	assert.Equal(t, exact, got.Description)
}

func TestParse_Deterministic(t *testing.T) {
	first, err := Parse(DiDongViet, didongvietPage, "https://didongviet.vn/phone-x.html")
	require.NoError(t, err)
	second, err := Parse(DiDongViet, didongvietPage, "https://didongviet.vn/phone-x.html")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParse_OutOfRangeSiteUsesGeneric(t *testing.T) {
	got, err := Parse(Site(42), `<html><body><div class="price-current">1.000₫</div></body></html>`, "https://x.vn")
	require.NoError(t, err)
	assert.Nil(t, got.Price)
}

func TestSiteString(t *testing.T) {
	assert.Equal(t, "generic", Generic.String())
	assert.Equal(t, "didongviet", DiDongViet.String())
	assert.Equal(t, "thegioididong", TheGioiDiDong.String())
	assert.Equal(t, "cellphones", CellphoneS.String())
	assert.Equal(t, "fptshop", FPTShop.String())
	assert.Equal(t, "generic", Site(-1).String())
	assert.Len(t, Sites(), 5)
}

func TestProfilesAreComplete(t *testing.T) {
	for _, site := range Sites() {
		p := profiles[site]
		assert.NotEmpty(t, p.title.matchers, "%s has no title rule", site)
		assert.NotEmpty(t, p.price.matchers, "%s has no price rule", site)
		assert.NotEmpty(t, p.image.matchers, "%s has no image rule", site)
	}
}
