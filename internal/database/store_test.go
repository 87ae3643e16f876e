package database_test

import (
	"context"
	"time"

	manufacturerDatamodel "github.com/mfgkeeper/manufacturer-maintenance/internal/core/datamodel/manufacturer"
	personnelDatamodel "github.com/mfgkeeper/manufacturer-maintenance/internal/core/datamodel/personnel"
	userDatamodel "github.com/mfgkeeper/manufacturer-maintenance/internal/core/datamodel/user"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/database"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Store", func() {
	var (
		db    *gorm.DB
		store *database.Store
		ctx   context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&manufacturerDatamodel.Manufacturer{},
			&personnelDatamodel.Personnel{},
			&userDatamodel.User{},
		)
		Expect(err).NotTo(HaveOccurred())

		store = database.NewStore(db)
		ctx = context.Background()
	})

	seedPersonnel := func(manufacturerID, name string) {
		res := store.Insert(ctx, database.TablePersonnel, map[string]interface{}{
			"manufacturer_id": manufacturerID,
			"personnel_name":  name,
		})
		Expect(res.Err).NotTo(HaveOccurred())
	}

	Describe("Select", func() {
		BeforeEach(func() {
			seedPersonnel("TEST001", "张三")
			seedPersonnel("TEST001", "李四")
			seedPersonnel("OTHER01", "王五")
		})

		It("should AND equality predicates", func() {
			rows, err := database.Select[personnelDatamodel.Personnel](ctx, store, database.TablePersonnel,
				database.Eq("manufacturer_id", "TEST001"),
				database.Eq("personnel_name", "张三"),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].PersonnelName).To(Equal("张三"))
		})

		It("should restrict by id", func() {
			all, err := database.Select[personnelDatamodel.Personnel](ctx, store, database.TablePersonnel)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))

			rows, err := database.Select[personnelDatamodel.Personnel](ctx, store, database.TablePersonnel,
				database.Eq("id", all[0].ID))
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].ID).To(Equal(all[0].ID))
		})

		It("should truncate client-side when a limit is given", func() {
			rows, err := database.Select[personnelDatamodel.Personnel](ctx, store, database.TablePersonnel,
				database.Limit(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
		})

		It("should return an empty slice for no matches", func() {
			rows, err := database.Select[personnelDatamodel.Personnel](ctx, store, database.TablePersonnel,
				database.Eq("manufacturer_id", "NOPE"))
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})
	})

	Describe("SelectMaps", func() {
		It("should expose the raw column set", func() {
			res := store.Insert(ctx, database.TableManufacturers, map[string]interface{}{
				"manufacturer_id": "TEST001",
				"name":            "示例厂家",
				"contact_person":  "张经理",
				"phone":           "13800138000",
				"email":           "test@example.com",
			})
			Expect(res.Err).NotTo(HaveOccurred())

			rows, err := store.SelectMaps(ctx, database.TableManufacturers, database.Limit(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0]).To(HaveKey("manufacturer_id"))
			Expect(rows[0]).To(HaveKey("contact_person"))
			Expect(rows[0]).To(HaveKey("created_at"))
		})
	})

	Describe("Insert", func() {
		It("should stamp created_at on every table", func() {
			res := store.Insert(ctx, database.TableManufacturers, map[string]interface{}{
				"manufacturer_id": "TEST001",
				"name":            "示例厂家",
			})
			Expect(res.Err).NotTo(HaveOccurred())
			Expect(res.Data).To(HaveLen(1))
			Expect(res.Data[0]).To(HaveKey("created_at"))

			rows, err := database.Select[manufacturerDatamodel.Manufacturer](ctx, store, database.TableManufacturers)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].CreatedAt).NotTo(BeZero())
		})

		It("should stamp updated_at and default is_active for personnel", func() {
			seedPersonnel("TEST001", "张三")

			rows, err := database.Select[personnelDatamodel.Personnel](ctx, store, database.TablePersonnel)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].IsActive).To(BeTrue())
			Expect(rows[0].CreatedAt).NotTo(BeZero())
			Expect(rows[0].UpdatedAt).NotTo(BeZero())
		})

		It("should keep an explicit is_active value", func() {
			res := store.Insert(ctx, database.TablePersonnel, map[string]interface{}{
				"manufacturer_id": "TEST001",
				"personnel_name":  "张三",
				"is_active":       false,
			})
			Expect(res.Err).NotTo(HaveOccurred())

			rows, err := database.Select[personnelDatamodel.Personnel](ctx, store, database.TablePersonnel)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows[0].IsActive).To(BeFalse())
		})
	})

	Describe("Update", func() {
		BeforeEach(func() {
			seedPersonnel("TEST001", "张三")
		})

		It("should patch rows scoped by equality filters", func() {
			rows, err := database.Select[personnelDatamodel.Personnel](ctx, store, database.TablePersonnel)
			Expect(err).NotTo(HaveOccurred())

			res := store.Update(ctx, database.TablePersonnel,
				map[string]interface{}{"position": "维修组长"},
				database.Eq("id", rows[0].ID))
			Expect(res.Err).NotTo(HaveOccurred())

			updated, err := database.Select[personnelDatamodel.Personnel](ctx, store, database.TablePersonnel,
				database.Eq("id", rows[0].ID))
			Expect(err).NotTo(HaveOccurred())
			Expect(updated[0].Position).To(Equal("维修组长"))
		})

		It("should refresh updated_at on personnel updates", func() {
			rows, err := database.Select[personnelDatamodel.Personnel](ctx, store, database.TablePersonnel)
			Expect(err).NotTo(HaveOccurred())
			before := rows[0].UpdatedAt

			time.Sleep(10 * time.Millisecond)

			res := store.Update(ctx, database.TablePersonnel,
				map[string]interface{}{"note": "年度体检完成"},
				database.Eq("id", rows[0].ID))
			Expect(res.Err).NotTo(HaveOccurred())

			updated, err := database.Select[personnelDatamodel.Personnel](ctx, store, database.TablePersonnel,
				database.Eq("id", rows[0].ID))
			Expect(err).NotTo(HaveOccurred())
			Expect(updated[0].UpdatedAt).To(BeTemporally(">", before))
		})

		It("should report an error when no rows match", func() {
			res := store.Update(ctx, database.TablePersonnel,
				map[string]interface{}{"note": "whatever"},
				database.Eq("id", 9999))
			Expect(res.Err).To(MatchError("更新失败，未找到记录"))
		})
	})

	Describe("Probe", func() {
		It("should succeed against a reachable users table", func() {
			Expect(store.Probe(ctx)).To(Succeed())
		})
	})
})
