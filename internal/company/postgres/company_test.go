package postgres_test

import (
	"context"
	"testing"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/company"
	"github.com/frahmantamala/payroll-management/internal/company/postgres"
	companyDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/company"
	"github.com/frahmantamala/payroll-management/internal/core/store/storetest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestCompanyRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CompanyRepository Suite")
}

var _ = Describe("CompanyRepository", func() {
	var (
		db   *gorm.DB
		repo company.RepositoryAPI
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = storetest.Open()
		Expect(err).NotTo(HaveOccurred())
		repo = postgres.NewCompanyRepository(db)
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	Describe("CreateAndAttach", func() {
		It("creates the company and links the user", func() {
			userID, err := storetest.SeedUser(db, "a@example.com", nil)
			Expect(err).NotTo(HaveOccurred())

			c := &company.Company{Name: "Acme"}
			Expect(repo.CreateAndAttach(ctx, userID, c)).To(Succeed())
			Expect(c.ID).To(BeNumerically(">", 0))

			linked, err := repo.UserCompanyID(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(linked).NotTo(BeNil())
			Expect(*linked).To(Equal(c.ID))
		})

		It("rolls back when the user already has a company", func() {
			existing, err := storetest.SeedCompany(db, "First")
			Expect(err).NotTo(HaveOccurred())
			userID, err := storetest.SeedUser(db, "b@example.com", &existing)
			Expect(err).NotTo(HaveOccurred())

			err = repo.CreateAndAttach(ctx, userID, &company.Company{Name: "Second"})
			Expect(err).To(MatchError(company.ErrUserAlreadyAttached))

			var count int64
			Expect(db.Model(&companyDatamodel.Company{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))

			linked, err := repo.UserCompanyID(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*linked).To(Equal(existing))
		})
	})

	Describe("GetByID and Update", func() {
		It("returns not found for a missing company", func() {
			_, err := repo.GetByID(ctx, 404)
			Expect(err).To(Equal(internal.ErrCompanyNotFound))
		})

		It("replaces the mutable fields", func() {
			id, err := storetest.SeedCompany(db, "Old")
			Expect(err).NotTo(HaveOccurred())

			addr := "1 Main St"
			Expect(repo.Update(ctx, &company.Company{ID: id, Name: "New", Address: &addr})).To(Succeed())

			got, err := repo.GetByID(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("New"))
			Expect(*got.Address).To(Equal("1 Main St"))
		})

		It("reports not found when updating a missing company", func() {
			err := repo.Update(ctx, &company.Company{ID: 999, Name: "Ghost"})
			Expect(err).To(Equal(internal.ErrCompanyNotFound))
		})
	})
})
