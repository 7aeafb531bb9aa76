package main

import (
	"os"
	"strings"

	gosf "github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intake/internal/model"
	sfpkg "github.com/sells-group/lead-intake/pkg/salesforce"
)

// initSalesforce builds the JWT-authenticated Salesforce client.
func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (INTAKE_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := gosf.Init(gosf.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf, sfpkg.WithRateLimit(cfg.Salesforce.RPS)), nil
}

// salesforceRecord flattens a lead into Lead sObject fields. The brief
// lands in Description so it shows on the rep's screen unedited.
func salesforceRecord(l *model.Lead) map[string]any {
	desc := strings.Join(l.SalesBrief.Bullets, "\n")
	if l.SalesBrief.FirstQuestion != "" {
		desc += "\n\nOpen with: " + l.SalesBrief.FirstQuestion
	}

	// Externally inserted rows may carry ids shorter than a uuid.
	shortID := l.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	return map[string]any{
		"LastName":    "Chat Lead " + shortID,
		"Company":     "Unknown",
		"LeadSource":  "Chat Intake",
		"Description": desc,
	}
}

var pushCmd = &cobra.Command{
	Use:   "push <lead-id>",
	Short: "Push an extracted lead to Salesforce as a Lead record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		lead, err := st.GetLead(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if lead.Stage != model.StageExtracted {
			return eris.Errorf("lead %s is still %s; run extract first", lead.ID, lead.Stage)
		}

		sf, err := initSalesforce()
		if err != nil {
			return err
		}

		sfID, err := sf.InsertOne(cmd.Context(), "Lead", salesforceRecord(lead))
		if err != nil {
			return err
		}

		zap.L().Info("lead pushed to salesforce",
			zap.String("lead_id", lead.ID),
			zap.String("salesforce_id", sfID))
		return nil
	},
}

func init() {
	leadsCmd.AddCommand(pushCmd)
}
