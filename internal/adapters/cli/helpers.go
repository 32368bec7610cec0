package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/AraragiEro/kahuna-bot/internal/infrastructure/config"
)

var numbers = message.NewPrinter(language.English)

// resolveUserID resolves the acting user from flags or defaults
// Priority: --user flag > user config default
func resolveUserID() (string, error) {
	if userFlag != "" {
		return userFlag, nil
	}

	userCfg, err := loadUserConfig()
	if err != nil {
		return "", fmt.Errorf("no user specified and failed to load user config: %w", err)
	}
	if userCfg.DefaultUserID != "" {
		return userCfg.DefaultUserID, nil
	}

	return "", fmt.Errorf("no user specified: use --user or 'kahuna config set-user'")
}

// resolvePlanName takes the plan from the first argument, falling back to
// the default plan
func resolvePlanName(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}

	userCfg, err := loadUserConfig()
	if err == nil && userCfg.DefaultPlan != "" {
		return userCfg.DefaultPlan, nil
	}

	return "", fmt.Errorf("no plan specified: pass a plan name or use 'kahuna config set-plan'")
}

func loadUserConfig() (*config.UserConfig, error) {
	handler, err := config.NewUserConfigHandler()
	if err != nil {
		return nil, err
	}
	return handler.Load()
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatQuantity renders an integer with thousands separators
func formatQuantity(n int64) string {
	return numbers.Sprintf("%d", n)
}

// formatISK renders an amount with thousands separators and two decimals
func formatISK(v float64) string {
	return numbers.Sprintf("%.2f", v)
}

func formatPercent(share float64) string {
	return fmt.Sprintf("%.1f%%", share*100)
}

// parseIndexes parses 1-based line numbers
func parseIndexes(args []string) ([]int, error) {
	indexes := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid line number %q", arg)
		}
		indexes = append(indexes, n)
	}
	return indexes, nil
}

// parseProductQuantity splits a "Name=Qty" argument. The name may itself
// contain '='; the last one separates the quantity.
func parseProductQuantity(arg string) (string, int64, error) {
	i := strings.LastIndex(arg, "=")
	if i <= 0 || i == len(arg)-1 {
		return "", 0, fmt.Errorf("invalid product %q: expected Name=Quantity", arg)
	}
	qty, err := strconv.ParseInt(arg[i+1:], 10, 64)
	if err != nil || qty <= 0 {
		return "", 0, fmt.Errorf("invalid quantity in %q", arg)
	}
	return strings.TrimSpace(arg[:i]), qty, nil
}
