package database_test

import (
	"context"
	"path/filepath"
	"time"

	internal "github.com/mfgkeeper/manufacturer-maintenance/internal"
	userDatamodel "github.com/mfgkeeper/manufacturer-maintenance/internal/core/datamodel/user"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/database"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Manager", func() {
	var (
		ctx    context.Context
		dbPath string
	)

	BeforeEach(func() {
		ctx = context.Background()
		dbPath = filepath.Join(GinkgoT().TempDir(), "manager.db")
	})

	migrateUsers := func(path string) {
		db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	}

	newManager := func(attempts int) *database.Manager {
		return database.NewManager(internal.DatabaseConfig{
			Driver:        "sqlite",
			Source:        dbPath,
			RetryAttempts: attempts,
			RetryDelay:    10 * time.Millisecond,
		}, nil)
	}

	It("should start uninitialized", func() {
		m := newManager(1)
		Expect(m.State()).To(Equal(database.StateUninitialized))
		_, ok := m.Current()
		Expect(ok).To(BeFalse())
	})

	It("should become ready when the probe succeeds", func() {
		migrateUsers(dbPath)
		m := newManager(3)

		store, err := m.Ensure(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(store).NotTo(BeNil())
		Expect(m.State()).To(Equal(database.StateReady))

		current, ok := m.Current()
		Expect(ok).To(BeTrue())
		Expect(current).To(BeIdenticalTo(store))
	})

	It("should reuse the handle on subsequent calls", func() {
		migrateUsers(dbPath)
		m := newManager(3)

		first, err := m.Ensure(ctx)
		Expect(err).NotTo(HaveOccurred())
		second, err := m.Ensure(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(BeIdenticalTo(first))
	})

	It("should fail after exhausting attempts against a missing schema", func() {
		m := newManager(2)

		_, err := m.Ensure(ctx)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("after 2 attempts"))
		Expect(m.State()).To(Equal(database.StateFailed))
	})

	It("should recover on a later attempt once the schema exists", func() {
		m := newManager(1)

		_, err := m.Ensure(ctx)
		Expect(err).To(HaveOccurred())
		Expect(m.State()).To(Equal(database.StateFailed))

		migrateUsers(dbPath)

		store, err := m.Ensure(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(store).NotTo(BeNil())
		Expect(m.State()).To(Equal(database.StateReady))
	})

	It("should drop the handle on reset", func() {
		migrateUsers(dbPath)
		m := newManager(1)

		_, err := m.Ensure(ctx)
		Expect(err).NotTo(HaveOccurred())

		m.Reset()
		Expect(m.State()).To(Equal(database.StateUninitialized))
		_, ok := m.Current()
		Expect(ok).To(BeFalse())

		store, err := m.Ensure(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(store).NotTo(BeNil())
	})
})
