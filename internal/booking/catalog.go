package booking

import "sort"

// Catalog is the static vendor directory, immutable after construction and
// safe to share across sessions.
type Catalog struct {
	byService map[string][]Vendor
}

// NewCatalog builds the default vendor directory.
func NewCatalog() *Catalog {
	c := &Catalog{byService: make(map[string][]Vendor)}
	for _, v := range defaultVendors {
		c.byService[v.ServiceType] = append(c.byService[v.ServiceType], v)
	}
	return c
}

// Services lists the bookable service types in stable order.
func (c *Catalog) Services() []string {
	out := make([]string, 0, len(c.byService))
	for s := range c.byService {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Recommend ranks vendors for a service type and returns the top three.
// Weights: rating 40%, experience 25%, review count 20%, response time 15%.
func (c *Catalog) Recommend(serviceType, _ string) []Vendor {
	vendors := c.byService[serviceType]
	if len(vendors) == 0 {
		return nil
	}

	type scored struct {
		v     Vendor
		score float64
	}
	ranked := make([]scored, 0, len(vendors))
	for _, v := range vendors {
		score := v.Rating * 8
		exp := v.ExperienceYears
		if exp > 10 {
			exp = 10
		}
		score += float64(exp) * 2.5
		reviews := float64(v.Reviews) / 10
		if reviews > 10 {
			reviews = 10
		}
		score += reviews * 2
		switch {
		case v.ResponseTimeMin <= 15:
			score += 15
		case v.ResponseTimeMin <= 30:
			score += 10
		default:
			score += 5
		}
		ranked = append(ranked, scored{v: v, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	n := len(ranked)
	if n > 3 {
		n = 3
	}
	out := make([]Vendor, 0, n)
	for _, s := range ranked[:n] {
		out = append(out, s.v)
	}
	return out
}

var defaultVendors = []Vendor{
	{ID: "v-pl-1", Name: "Premium Plumbing Services", Phone: "+91-98450-11001", ServiceType: "plumber", Rating: 4.8, ExperienceYears: 6, Reviews: 120, ResponseTimeMin: 15, PriceRange: "800-2500"},
	{ID: "v-pl-2", Name: "Quick Plumb Solutions", Phone: "+91-98450-11002", ServiceType: "plumber", Rating: 4.3, ExperienceYears: 3, Reviews: 45, ResponseTimeMin: 30, PriceRange: "500-1800"},
	{ID: "v-pl-3", Name: "Expert Pipe Professionals", Phone: "+91-98450-11003", ServiceType: "plumber", Rating: 4.6, ExperienceYears: 8, Reviews: 89, ResponseTimeMin: 20, PriceRange: "700-2200"},
	{ID: "v-el-1", Name: "Certified Electric Works", Phone: "+91-98450-22001", ServiceType: "electrician", Rating: 4.7, ExperienceYears: 9, Reviews: 150, ResponseTimeMin: 15, PriceRange: "600-3000"},
	{ID: "v-el-2", Name: "City Wiring Experts", Phone: "+91-98450-22002", ServiceType: "electrician", Rating: 4.4, ExperienceYears: 5, Reviews: 60, ResponseTimeMin: 25, PriceRange: "500-2000"},
	{ID: "v-ca-1", Name: "Fine Woodwork Studio", Phone: "+91-98450-33001", ServiceType: "carpenter", Rating: 4.5, ExperienceYears: 12, Reviews: 75, ResponseTimeMin: 45, PriceRange: "900-5000"},
	{ID: "v-ca-2", Name: "Rapid Furniture Repair", Phone: "+91-98450-33002", ServiceType: "carpenter", Rating: 4.2, ExperienceYears: 4, Reviews: 38, ResponseTimeMin: 30, PriceRange: "600-2500"},
	{ID: "v-cl-1", Name: "Sparkle Home Cleaning", Phone: "+91-98450-44001", ServiceType: "cleaner", Rating: 4.6, ExperienceYears: 5, Reviews: 200, ResponseTimeMin: 20, PriceRange: "400-1500"},
	{ID: "v-cl-2", Name: "Deep Clean Crew", Phone: "+91-98450-44002", ServiceType: "cleaner", Rating: 4.4, ExperienceYears: 3, Reviews: 90, ResponseTimeMin: 25, PriceRange: "500-1800"},
	{ID: "v-pa-1", Name: "Fresh Coat Painters", Phone: "+91-98450-55001", ServiceType: "painter", Rating: 4.5, ExperienceYears: 7, Reviews: 64, ResponseTimeMin: 60, PriceRange: "1500-8000"},
	{ID: "v-ac-1", Name: "CoolAir AC Service", Phone: "+91-98450-66001", ServiceType: "ac_repair", Rating: 4.7, ExperienceYears: 6, Reviews: 110, ResponseTimeMin: 15, PriceRange: "600-2800"},
	{ID: "v-ac-2", Name: "Arctic Repair Technicians", Phone: "+91-98450-66002", ServiceType: "ac_repair", Rating: 4.3, ExperienceYears: 4, Reviews: 52, ResponseTimeMin: 30, PriceRange: "500-2200"},
}
