package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/drewzambelli/wtml/internal/warehouse"
)

const stateDir = "dev/.state"

func create(recreate bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}

	if recreate {
		err = os.RemoveAll(stateDir)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	err = os.MkdirAll(stateDir, 0777)
	if err != nil && !os.IsExist(err) {
		return err
	}

	warehousePath := filepath.Join(stateDir, "warehouse.db")
	err = createWarehouse(warehousePath)
	if err != nil {
		return err
	}
	return writeEnvFile(warehousePath)
}

func createWarehouse(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		fmt.Println("warehouse already created at", path)
		return nil
	}

	fmt.Println("creating warehouse at", path)
	db, err := warehouse.Open(path, "")
	if err != nil {
		return err
	}
	defer db.Close()
	return warehouse.NewStore(db).EnsureSchema(context.Background())
}

// points the uploader at the local warehouse unless the operator
// already has credentials of their own
func writeEnvFile(warehousePath string) error {
	_, err := os.Stat(".env")
	if err == nil {
		fmt.Println(".env already exists, leaving it alone")
		return nil
	}
	return os.WriteFile(".env", []byte(fmt.Sprintf("WTML_DATABASE_URL=%s\n", warehousePath)), 0600)
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	flag.Parse()

	err := create(*recreate)
	if err != nil {
		slog.Error("failed to create dev environment", "err", err.Error())
		os.Exit(1)
	}

	slog.Info("dev environment created successfully!")
}
