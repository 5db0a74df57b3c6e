package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/app"
	"github.com/odyssey-erp/odyssey-admin/internal/masterdata"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/db"
	"github.com/odyssey-erp/odyssey-admin/internal/registry/companies"
	"github.com/odyssey-erp/odyssey-admin/internal/registry/partners"
)

func main() {
	cfg, err := app.LoadAPIConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	ctx := context.Background()
	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if _, err := api.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := seed(ctx, api.NewPostgresStore(pool)); err != nil {
		log.Fatalf("seed: %v", err)
	}
	fmt.Println("✓ Seed complete at", time.Now().Format(time.RFC3339))
}

func seed(ctx context.Context, store api.Store) error {
	fmt.Println("→ Seeding master data...")
	if err := seedMasterData(ctx, store); err != nil {
		return fmt.Errorf("master data: %w", err)
	}
	fmt.Println("→ Seeding companies...")
	if err := seedCompanies(ctx, store.Companies()); err != nil {
		return fmt.Errorf("companies: %w", err)
	}
	fmt.Println("→ Seeding channel partners...")
	if err := seedPartners(ctx, store.Partners()); err != nil {
		return fmt.Errorf("partners: %w", err)
	}
	return nil
}

func seedMasterData(ctx context.Context, store api.Store) error {
	lists := map[string][]masterdata.Option{
		masterdata.ListCompanyTypes: {
			{Code: "customer", Label: "Customer"},
			{Code: "supplier", Label: "Supplier"},
			{Code: "distributor", Label: "Distributor"},
			{Code: "reseller", Label: "Reseller"},
		},
		masterdata.ListCountries: {
			{Code: "ID", Label: "Indonesia"},
			{Code: "SG", Label: "Singapore"},
			{Code: "MY", Label: "Malaysia"},
		},
	}
	for name, options := range lists {
		if err := store.ReplaceMasterList(ctx, name, options); err != nil {
			return err
		}
	}
	return nil
}

// seedCompanies only fills an empty table so reruns keep edited data.
func seedCompanies(ctx context.Context, res api.Resource[companies.Company, companies.Form]) error {
	existing, err := res.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Printf("  skipped, %d companies present\n", len(existing))
		return nil
	}
	inactive := false
	forms := []companies.Form{
		{Name: "PT Odyssey Nusantara", Address: "Jl. Sudirman 1, Jakarta", Phone: "+62 21 555 0100", Email: "info@odyssey.co.id", Website: "https://odyssey.co.id", CompanyType: "customer"},
		{Name: "CV Sinar Logistik", Address: "Jl. Pemuda 12, Surabaya", Phone: "+62 31 555 0200", Email: "ops@sinarlogistik.id", CompanyType: "supplier"},
		{Name: "Borneo Distribusi", Address: "Jl. Ahmad Yani 5, Balikpapan", CompanyType: "distributor"},
		{Name: "Legacy Traders", CompanyType: "reseller", IsActive: &inactive},
	}
	for _, f := range forms {
		if _, err := res.Create(ctx, f); err != nil {
			return fmt.Errorf("create %s: %w", f.Name, err)
		}
	}
	return nil
}

func seedPartners(ctx context.Context, res api.Resource[partners.Partner, partners.Form]) error {
	existing, err := res.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Printf("  skipped, %d partners present\n", len(existing))
		return nil
	}
	inactive := false
	forms := []partners.Form{
		{FirstName: "Budi", LastName: "Santoso", Email: "budi.santoso@example.com", PhoneNumber: "+62 811 1000 001"},
		{FirstName: "Ayu", LastName: "Lestari", Email: "ayu.lestari@example.com", PhoneNumber: "+62 811 1000 002"},
		{FirstName: "Citra", LastName: "Dewi", Email: "citra.dewi@example.com", PhoneNumber: "+62 811 1000 003", IsActive: &inactive},
	}
	for _, f := range forms {
		if _, err := res.Create(ctx, f); err != nil {
			return fmt.Errorf("create %s %s: %w", f.FirstName, f.LastName, err)
		}
	}
	return nil
}
