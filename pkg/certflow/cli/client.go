package cli

import (
	"context"

	"github.com/certflow/certflow/pkg/certflow/csr_workflow"
	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/sirupsen/logrus"
)

type CSRCreateCmd struct {
	CommonName         string   `long:"common-name" help:"Common name" required:""`
	Organization       string   `long:"org" help:"Organization name"`
	OrganizationalUnit string   `long:"unit" help:"Organizational unit"`
	Locality           string   `long:"locality" help:"Locality"`
	State              string   `long:"state" help:"State or province"`
	Country            string   `long:"country" help:"Two letter country code"`
	SAN                []string `long:"san" help:"Subject alternative name, DNS name or IP address"`

	KeyAlgorithm  string `enum:"RSA,ECDSA" long:"key-algorithm" help:"Key algorithm" default:"RSA"`
	KeySize       int    `long:"key-size" help:"Key size in bits" default:"2048"`
	HashAlgorithm string `enum:"SHA256,SHA384,SHA512" long:"hash-algorithm" help:"Hash algorithm" default:"SHA256"`
	Template      string `long:"template" help:"CA template name"`

	CA     string `long:"ca" help:"Target CA ID"`
	Target string `long:"target-server" help:"Target server ID, empty for the local host"`
}

type CSRListCmd struct {
	Offset int      `long:"offset" help:"Offset" default:"0"`
	Limit  int      `long:"limit" help:"Limit" default:"50"`
	Status []string `long:"status" help:"Only list CSRs in these statuses"`
}

type CSRIDCmd struct {
	ID string `arg:"" help:"CSR ID"`
}

type CSRGetCmd CSRIDCmd
type CSRGenerateCmd CSRIDCmd
type CSRSubmitCmd CSRIDCmd
type CSRCancelCmd CSRIDCmd
type CSRDeleteCmd CSRIDCmd

type ClientSyncCmd struct {
	CA string `long:"ca" help:"Sync this CA now and wait for the result instead of starting a background sweep"`
}

type ClientReconcileCmd struct{}
type ClientDispatchCmd struct{}

type ClientSendTestCmd struct {
	Email string `arg:"" help:"Recipient address"`
}

func (cli *CertflowCli) restClient() *RestClient {
	return NewRestClient(cli.Client.Server, cli.Client.Requester)
}

func (cmd *CSRCreateCmd) Run(cli *CertflowCli) error {
	req := csr_workflow.CreateCSRRequest{
		CommonName:              cmd.CommonName,
		Organization:            cmd.Organization,
		OrganizationalUnit:      cmd.OrganizationalUnit,
		Locality:                cmd.Locality,
		State:                   cmd.State,
		Country:                 cmd.Country,
		SubjectAlternativeNames: cmd.SAN,
		KeySize:                 cmd.KeySize,
		KeyAlgorithm:            model.KeyAlgorithm(cmd.KeyAlgorithm),
		HashAlgorithm:           model.HashAlgorithm(cmd.HashAlgorithm),
		TemplateName:            cmd.Template,
		TargetCAID:              cmd.CA,
		TargetServerID:          cmd.Target,
	}
	csr, err := cli.restClient().CreateCSR(context.Background(), req)
	if err != nil {
		return err
	}
	logrus.Infof("CSR created with ID: %s", csr.ID)
	return printJSON(csr)
}

func (cmd *CSRListCmd) Run(cli *CertflowCli) error {
	result, err := cli.restClient().ListCSRs(context.Background(), cmd.Offset, cmd.Limit, cmd.Status)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func (cmd *CSRGetCmd) Run(cli *CertflowCli) error {
	csr, err := cli.restClient().GetCSR(context.Background(), cmd.ID)
	if err != nil {
		return err
	}
	return printJSON(csr)
}

func (cmd *CSRGenerateCmd) Run(cli *CertflowCli) error {
	return transit(cli, cmd.ID, "generate")
}

func (cmd *CSRSubmitCmd) Run(cli *CertflowCli) error {
	return transit(cli, cmd.ID, "submit")
}

func (cmd *CSRCancelCmd) Run(cli *CertflowCli) error {
	return transit(cli, cmd.ID, "cancel")
}

func transit(cli *CertflowCli, id, action string) error {
	csr, err := cli.restClient().TransitCSR(context.Background(), id, action)
	if err != nil {
		return err
	}
	logrus.Infof("CSR %s is %s", csr.ID, csr.Status)
	return printJSON(csr)
}

func (cmd *CSRDeleteCmd) Run(cli *CertflowCli) error {
	if err := cli.restClient().DeleteCSR(context.Background(), cmd.ID); err != nil {
		return err
	}
	logrus.Infof("CSR %s deleted", cmd.ID)
	return nil
}

func (cmd *ClientSyncCmd) Run(cli *CertflowCli) error {
	ctx := context.Background()
	if cmd.CA != "" {
		result, err := cli.restClient().SyncAuthority(ctx, cmd.CA)
		if err != nil {
			return err
		}
		return printJSON(result)
	}
	result, err := cli.restClient().TriggerSync(ctx)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func (cmd *ClientReconcileCmd) Run(cli *CertflowCli) error {
	result, err := cli.restClient().Reconcile(context.Background())
	if err != nil {
		return err
	}
	return printJSON(result)
}

func (cmd *ClientDispatchCmd) Run(cli *CertflowCli) error {
	result, err := cli.restClient().TriggerDispatch(context.Background())
	if err != nil {
		return err
	}
	return printJSON(result)
}

func (cmd *ClientSendTestCmd) Run(cli *CertflowCli) error {
	result, err := cli.restClient().SendTest(context.Background(), cmd.Email)
	if err != nil {
		return err
	}
	return printJSON(result)
}
