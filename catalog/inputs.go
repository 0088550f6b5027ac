package catalog

// ProductInput is the body of a product create request and the shape of a
// product entry in a seed file.
type ProductInput struct {
	NameEn        string   `json:"nameEn" yaml:"nameEn" validate:"required"`
	NameAr        string   `json:"nameAr" yaml:"nameAr" validate:"required"`
	DescriptionEn *string  `json:"descriptionEn" yaml:"descriptionEn"`
	DescriptionAr *string  `json:"descriptionAr" yaml:"descriptionAr"`
	Price         float64  `json:"price" yaml:"price" validate:"gt=0"`
	OriginalPrice *float64 `json:"originalPrice" yaml:"originalPrice" validate:"omitempty,gt=0"`
	Category      string   `json:"category" yaml:"category" validate:"required"`
	BadgeEn       *string  `json:"badgeEn" yaml:"badgeEn"`
	BadgeAr       *string  `json:"badgeAr" yaml:"badgeAr"`
	ImageURL      *string  `json:"imageUrl" yaml:"imageUrl"`
	FeaturesEn    []string `json:"featuresEn" yaml:"featuresEn"`
	FeaturesAr    []string `json:"featuresAr" yaml:"featuresAr"`
	IsFeatured    bool     `json:"isFeatured" yaml:"isFeatured"`
	IsActive      *bool    `json:"isActive" yaml:"isActive"`
	StockQuantity int      `json:"stockQuantity" yaml:"stockQuantity" validate:"gte=0"`
}

// ProductUpdate is a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	NameEn        *string   `json:"nameEn"`
	NameAr        *string   `json:"nameAr"`
	DescriptionEn *string   `json:"descriptionEn"`
	DescriptionAr *string   `json:"descriptionAr"`
	Price         *float64  `json:"price"`
	OriginalPrice *float64  `json:"originalPrice"`
	Category      *string   `json:"category"`
	BadgeEn       *string   `json:"badgeEn"`
	BadgeAr       *string   `json:"badgeAr"`
	ImageURL      *string   `json:"imageUrl"`
	FeaturesEn    *[]string `json:"featuresEn"`
	FeaturesAr    *[]string `json:"featuresAr"`
	IsFeatured    *bool     `json:"isFeatured"`
	IsActive      *bool     `json:"isActive"`
	StockQuantity *int      `json:"stockQuantity"`
}

type PlanInput struct {
	NameEn        string   `json:"nameEn" yaml:"nameEn" validate:"required"`
	NameAr        string   `json:"nameAr" yaml:"nameAr" validate:"required"`
	DescriptionEn *string  `json:"descriptionEn" yaml:"descriptionEn"`
	DescriptionAr *string  `json:"descriptionAr" yaml:"descriptionAr"`
	MonthlyPrice  float64  `json:"monthlyPrice" yaml:"monthlyPrice" validate:"gt=0"`
	AnnualPrice   *float64 `json:"annualPrice" yaml:"annualPrice" validate:"omitempty,gt=0"`
	Savings       *float64 `json:"savings" yaml:"savings" validate:"omitempty,gte=0"`
	MealsPerMonth int      `json:"mealsPerMonth" yaml:"mealsPerMonth" validate:"gt=0"`
	FeaturesEn    []string `json:"featuresEn" yaml:"featuresEn"`
	FeaturesAr    []string `json:"featuresAr" yaml:"featuresAr"`
	IsPopular     bool     `json:"isPopular" yaml:"isPopular"`
	IsActive      *bool    `json:"isActive" yaml:"isActive"`
}

type PlanUpdate struct {
	NameEn        *string   `json:"nameEn"`
	NameAr        *string   `json:"nameAr"`
	DescriptionEn *string   `json:"descriptionEn"`
	DescriptionAr *string   `json:"descriptionAr"`
	MonthlyPrice  *float64  `json:"monthlyPrice"`
	AnnualPrice   *float64  `json:"annualPrice"`
	Savings       *float64  `json:"savings"`
	MealsPerMonth *int      `json:"mealsPerMonth"`
	FeaturesEn    *[]string `json:"featuresEn"`
	FeaturesAr    *[]string `json:"featuresAr"`
	IsPopular     *bool     `json:"isPopular"`
	IsActive      *bool     `json:"isActive"`
}

func (in ProductInput) toProduct() *Product {
	p := &Product{
		NameEn:        in.NameEn,
		NameAr:        in.NameAr,
		DescriptionEn: in.DescriptionEn,
		DescriptionAr: in.DescriptionAr,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Category:      in.Category,
		BadgeEn:       in.BadgeEn,
		BadgeAr:       in.BadgeAr,
		ImageURL:      in.ImageURL,
		FeaturesEn:    nonNil(in.FeaturesEn),
		FeaturesAr:    nonNil(in.FeaturesAr),
		IsFeatured:    in.IsFeatured,
		IsActive:      true,
		StockQuantity: in.StockQuantity,
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return p
}

func (p *Product) toInput() ProductInput {
	return ProductInput{
		NameEn:        p.NameEn,
		NameAr:        p.NameAr,
		DescriptionEn: p.DescriptionEn,
		DescriptionAr: p.DescriptionAr,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Category:      p.Category,
		BadgeEn:       p.BadgeEn,
		BadgeAr:       p.BadgeAr,
		ImageURL:      p.ImageURL,
		FeaturesEn:    p.FeaturesEn,
		FeaturesAr:    p.FeaturesAr,
		IsFeatured:    p.IsFeatured,
		IsActive:      &p.IsActive,
		StockQuantity: p.StockQuantity,
	}
}

func (u ProductUpdate) apply(in *ProductInput) {
	setIf(&in.NameEn, u.NameEn)
	setIf(&in.NameAr, u.NameAr)
	setPtrIf(&in.DescriptionEn, u.DescriptionEn)
	setPtrIf(&in.DescriptionAr, u.DescriptionAr)
	setIf(&in.Price, u.Price)
	setPtrIf(&in.OriginalPrice, u.OriginalPrice)
	setIf(&in.Category, u.Category)
	setPtrIf(&in.BadgeEn, u.BadgeEn)
	setPtrIf(&in.BadgeAr, u.BadgeAr)
	setPtrIf(&in.ImageURL, u.ImageURL)
	setIf(&in.FeaturesEn, u.FeaturesEn)
	setIf(&in.FeaturesAr, u.FeaturesAr)
	setIf(&in.IsFeatured, u.IsFeatured)
	setPtrIf(&in.IsActive, u.IsActive)
	setIf(&in.StockQuantity, u.StockQuantity)
}

func (in PlanInput) toPlan() *SubscriptionPlan {
	p := &SubscriptionPlan{
		NameEn:        in.NameEn,
		NameAr:        in.NameAr,
		DescriptionEn: in.DescriptionEn,
		DescriptionAr: in.DescriptionAr,
		MonthlyPrice:  in.MonthlyPrice,
		AnnualPrice:   in.AnnualPrice,
		Savings:       in.Savings,
		MealsPerMonth: in.MealsPerMonth,
		FeaturesEn:    nonNil(in.FeaturesEn),
		FeaturesAr:    nonNil(in.FeaturesAr),
		IsPopular:     in.IsPopular,
		IsActive:      true,
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return p
}

func (p *SubscriptionPlan) toInput() PlanInput {
	return PlanInput{
		NameEn:        p.NameEn,
		NameAr:        p.NameAr,
		DescriptionEn: p.DescriptionEn,
		DescriptionAr: p.DescriptionAr,
		MonthlyPrice:  p.MonthlyPrice,
		AnnualPrice:   p.AnnualPrice,
		Savings:       p.Savings,
		MealsPerMonth: p.MealsPerMonth,
		FeaturesEn:    p.FeaturesEn,
		FeaturesAr:    p.FeaturesAr,
		IsPopular:     p.IsPopular,
		IsActive:      &p.IsActive,
	}
}

func (u PlanUpdate) apply(in *PlanInput) {
	setIf(&in.NameEn, u.NameEn)
	setIf(&in.NameAr, u.NameAr)
	setPtrIf(&in.DescriptionEn, u.DescriptionEn)
	setPtrIf(&in.DescriptionAr, u.DescriptionAr)
	setIf(&in.MonthlyPrice, u.MonthlyPrice)
	setPtrIf(&in.AnnualPrice, u.AnnualPrice)
	setPtrIf(&in.Savings, u.Savings)
	setIf(&in.MealsPerMonth, u.MealsPerMonth)
	setIf(&in.FeaturesEn, u.FeaturesEn)
	setIf(&in.FeaturesAr, u.FeaturesAr)
	setIf(&in.IsPopular, u.IsPopular)
	setPtrIf(&in.IsActive, u.IsActive)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setPtrIf[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
