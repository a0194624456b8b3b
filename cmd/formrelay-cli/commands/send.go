package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/venkm/formrelay/cmd/web/config"
	"github.com/venkm/formrelay/mailer"
	"github.com/venkm/formrelay/types"
)

type SendSettings struct {
	ConfigFile string
	Recipient  string
	Message    string
}

var sendSettings = &SendSettings{}

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a test message through the configured relay",
	Long: `Sends a single test message using the same configuration as the web service, to verify
relay credentials and connectivity. When no password is configured, it is prompted for.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		conf, err := config.NewConfig(sendSettings.ConfigFile)
		if err != nil {
			return err
		}

		recipient := conf.SMTP.Recipient
		if sendSettings.Recipient != "" {
			recipient = sendSettings.Recipient
		}

		if conf.SMTP.Sender == "" || recipient == "" {
			return fmt.Errorf("both a sender and a recipient are required, check SENDER_EMAIL and RECIPIENT_EMAIL")
		}

		password := conf.SMTP.Password
		if password == "" && term.IsTerminal(int(os.Stdin.Fd())) {
			cmd.Printf("Password for %s: ", conf.SMTP.Sender)

			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			cmd.Println()
			if err != nil {
				return err
			}

			password = string(raw)
		}

		sender := mailer.NewSMTPSender(mailer.Config{
			Host:           conf.SMTP.Host,
			Port:           conf.SMTP.Port,
			Sender:         conf.SMTP.Sender,
			Password:       password,
			Recipient:      recipient,
			ConnectTimeout: conf.SMTP.ConnectTimeout.AsDuration(),
		})

		sub := types.NewSubmission("Test User", recipient, sendSettings.Message, "127.0.0.1", time.Now())

		if err := sender.Send(cmd.Context(), sub); err != nil {
			return err
		}

		cmd.Printf("Test email sent to %s!\n", recipient)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVar(&sendSettings.ConfigFile, "config", "config.toml", "Configuration file to read, environment variables still apply")
	sendCmd.Flags().StringVar(&sendSettings.Recipient, "to", "", "Recipient, defaults to the configured RECIPIENT_EMAIL")
	sendCmd.Flags().StringVar(&sendSettings.Message, "message", "This is a test message. If you receive this, the system is working!", "Message body to send")
}
