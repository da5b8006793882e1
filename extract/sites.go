package extract

// profiles holds the selector tables, indexed by Site. Selectors are listed
// most reliable first; the generic ones at the tail of each list catch
// older templates.
var profiles = [numSites]profile{
	Generic: {
		title: NewRule(
			"h1",
			".product-title",
			".product-name",
			"title",
		),
		price: NewRule(
			`[class*="price"]`,
			`[class*="cost"]`,
			`[class*="amount"]`,
		),
		image: NewRule(
			".product-image img",
			".main-image img",
			`img[alt*="product"]`,
			`img[src*="product"]`,
		),
		titleMinLen:         5,
		priceCandidatesOnly: true,
	},

	DiDongViet: {
		title: NewRule(
			"h1.product-title",
			".product-name h1",
			"h1",
			".product-title",
		),
		price: NewRule(
			".product-price .price",
			".price-current",
			".current-price",
			".product-price-value",
		),
		originalPrice: NewRule(
			".product-price .old-price",
			".price-old",
			".original-price",
		),
		image: NewRule(
			".product-image img",
			".product-gallery img",
			".main-image img",
		),
		description: NewRule(
			".product-description",
			".product-summary",
			".product-info",
		),
	},

	TheGioiDiDong: {
		title: NewRule(
			".product-name h1",
			"section.detail h1",
			"h1",
		),
		price: NewRule(
			".box-price-present",
			".bs_price strong",
			".box-price .price",
			".price-current",
		),
		originalPrice: NewRule(
			".box-price-old",
			".bs_price em",
			".price-old",
		),
		image: NewRule(
			".slider-detail img",
			".owl-item img",
			".detail-main-img img",
			".product-image img",
		),
		description: NewRule(
			".article-content",
			".content-article",
			".product-description",
		),
		unavailable: []string{"hàng sắp về"},
	},

	CellphoneS: {
		title: NewRule(
			".box-product-name h1",
			".product-name h1",
			"h1",
		),
		price: NewRule(
			".product__price--show",
			".tpt---sale-price",
			".special-price",
			".price-current",
		),
		originalPrice: NewRule(
			".product__price--through",
			".tpt---price",
			".old-price",
		),
		image: NewRule(
			".gallery-product-detail img",
			".swiper-slide img",
			".box-ksp img",
			".product-image img",
		),
		description: NewRule(
			"#cpsContentSEO",
			".ksp-content",
			".cps-block-content",
			".product-description",
		),
		unavailable: []string{"sản phẩm tạm hết"},
	},

	FPTShop: {
		title: NewRule(
			"h1.st-name",
			".l-pd-header h1",
			"h1",
		),
		price: NewRule(
			".st-price-main",
			".l-pd-price .price",
			".price-current",
		),
		originalPrice: NewRule(
			".st-price-sub strike",
			".st-price-sub",
			".price-old",
		),
		image: NewRule(
			".st-slider img",
			".swiper-slide img",
			".l-pd-img img",
			".product-image img",
		),
		description: NewRule(
			".st-pd-content",
			".l-pd-body .card-body",
			".product-description",
		),
		unavailable: []string{"hàng sắp về"},
	},
}
