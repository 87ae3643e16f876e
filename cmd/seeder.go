package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/mfgkeeper/manufacturer-maintenance/internal/auth"
	authPostgres "github.com/mfgkeeper/manufacturer-maintenance/internal/auth/postgres"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/database"
	"github.com/mfgkeeper/manufacturer-maintenance/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with bootstrap data",
	Long:  `Ensure the default admin account and a sample manufacturer exist, for development and for recovering a locked-out deployment.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		lg := logger.LoggerWrapper()
		ctx := context.Background()

		manager := database.NewManager(cfg.Database, lg)
		store, err := manager.Ensure(ctx)
		if err != nil {
			log.Fatalf("failed to connect to database (run migrate first?): %v", err)
		}
		defer manager.Close()

		if clearData {
			for _, table := range []string{database.TablePersonnel, database.TableManufacturers, database.TableUsers} {
				if err := store.DB().WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
				fmt.Println("Cleared table:", table)
			}
		}

		authService := auth.NewService(authPostgres.NewRepository(manager), lg)
		if err := authService.EnsureAdmin(ctx); err != nil {
			log.Fatalf("failed to ensure admin user: %v", err)
		}
		fmt.Println("Admin user ready: admin")

		rows, err := store.SelectMaps(ctx, database.TableManufacturers, database.Limit(1))
		if err != nil {
			log.Fatalf("failed to check manufacturers: %v", err)
		}
		if len(rows) > 0 {
			fmt.Println("Manufacturers table not empty; skipping sample data")
			return
		}

		result := store.Insert(ctx, database.TableManufacturers, map[string]interface{}{
			"manufacturer_id": "TEST001",
			"name":            "示例厂家",
			"contact_person":  "张经理",
			"phone":           "13800138000",
			"email":           "test@example.com",
		})
		if result.Err != nil {
			log.Fatalf("failed to seed sample manufacturer: %v", result.Err)
		}
		fmt.Println("Seeded sample manufacturer: TEST001")
	},
}
