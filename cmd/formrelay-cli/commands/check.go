package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/venkm/formrelay/types"
	"github.com/venkm/formrelay/validator"
)

type CheckResult struct {
	Email       string `json:"email"`
	Valid       bool   `json:"valid"`
	ValidFormat bool   `json:"valid_format"`
	Lookup      string `json:"lookup,omitempty"`
	Reason      string `json:"reason"`
	Version     int    `json:"version"`
}

type CheckSettings struct {
	Resolver net.IP
	Strict   bool
	Timeout  time.Duration
}

var checkSettings = &CheckSettings{}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate email addresses",
	Long: `Validates one address given as argument, or one address per line piped on stdin.
Results are emitted as one JSON document per address.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return errors.New("too many arguments, expected 0 or 1")
		}

		if len(args) > 0 && isStdinPiped() {
			return errors.New("can't read both from stdin and argument")
		}

		if len(args) == 0 && !isStdinPiped() {
			return errors.New("missing argument")
		}

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		resolver := net.DefaultResolver
		if checkSettings.Resolver != nil {
			resolver = customResolver(checkSettings.Resolver)
		}

		v := validator.NewEmailAddressValidator(resolver, checkSettings.Strict)

		var input io.Reader = os.Stdin
		if len(args) > 0 {
			input = strings.NewReader(args[0])
		}

		jsonEncoder := json.NewEncoder(cmd.OutOrStdout())
		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			email := strings.TrimSpace(scanner.Text())
			if email == "" {
				continue
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), checkSettings.Timeout)
			r := check(ctx, v, email)
			cancel()

			if err := jsonEncoder.Encode(r); err != nil {
				cmd.PrintErr(err)
			}
		}

		if err := scanner.Err(); err != nil {
			cmd.PrintErr(err)
		}
	},
}

func check(ctx context.Context, v validator.EmailAddressValidator, email string) CheckResult {
	result := CheckResult{
		Email:       email,
		ValidFormat: validator.ValidFormat(email),
		Version:     1,
	}

	checkResult := v.Validate(ctx, email)
	result.Valid = checkResult.Accepted
	result.Reason = checkResult.Reason

	if result.ValidFormat {
		if parts, err := types.NewEmailParts(email); err == nil {
			result.Lookup = v.HasMailExchange(ctx, parts.Domain).String()
		}
	}

	return result
}

func customResolver(ip net.IP) *net.Resolver {
	return &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			d := net.Dialer{}
			return d.DialContext(ctx, network, net.JoinHostPort(ip.String(), `53`))
		},
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().IPVar(&checkSettings.Resolver, "resolver", nil, "Custom resolver to use, otherwise system default is used")
	checkCmd.Flags().BoolVar(&checkSettings.Strict, "strict", true, "Verify the domain against DNS, not just the address format")
	checkCmd.Flags().DurationVar(&checkSettings.Timeout, "timeout", 10*time.Second, "Per-address lookup timeout")
}
