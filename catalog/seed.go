package catalog

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML document accepted by `storefrontctl seed`.
type SeedFile struct {
	Products []ProductInput `yaml:"products"`
	Plans    []PlanInput    `yaml:"subscriptionPlans"`
}

// LoadSeed parses a seed document. Unknown keys are rejected so typos do not
// silently drop fields.
func LoadSeed(r io.Reader) (*SeedFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var seed SeedFile
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return &seed, nil
		}
		return nil, errors.Wrap(err, "[catalog.LoadSeed]")
	}
	return &seed, nil
}

// Seed creates every product and plan in the file, stopping at the first
// invalid entry. It returns how many of each were created.
func (s *Service) Seed(ctx context.Context, seed *SeedFile) (products, plans int, err error) {
	for i, in := range seed.Products {
		if _, err := s.CreateProduct(ctx, in); err != nil {
			return products, plans, errors.Wrapf(err, "product %d (%s)", i+1, in.NameEn)
		}
		products++
	}
	for i, in := range seed.Plans {
		if _, err := s.CreatePlan(ctx, in); err != nil {
			return products, plans, errors.Wrapf(err, "subscription plan %d (%s)", i+1, in.NameEn)
		}
		plans++
	}
	return products, plans, nil
}
