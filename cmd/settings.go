package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/frahmantamala/payroll-management/internal/setting"
	settingPostgres "github.com/frahmantamala/payroll-management/internal/setting/postgres"
	"github.com/frahmantamala/payroll-management/pkg/logger"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read or change global settings",
}

var exchangeRateCmd = &cobra.Command{
	Use:   "exchange-rate [value]",
	Short: "Show the USD to local rate, or set it when a value is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		lg := logger.Setup(cfg.Env, logger.Options{Level: "warn", Format: "text"})

		db, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		svc := setting.NewService(settingPostgres.NewSettingRepository(db), lg)
		ctx := context.Background()

		var out interface{}
		if len(args) == 1 {
			raw, _ := json.Marshal(args[0])
			out, err = svc.SetExchangeRate(ctx, setting.SetExchangeRateDTO{Value: raw})
		} else {
			out, err = svc.GetExchangeRate(ctx)
		}
		if err != nil {
			return err
		}

		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(exchangeRateCmd)
}
