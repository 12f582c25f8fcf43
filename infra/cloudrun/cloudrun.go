package cloudrun

import (
	"fmt"
	"strconv"

	"github.com/pulumi/pulumi-docker/sdk/v4/go/docker"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/cloudrun"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/GregMSThompson/insideoutbound-backend/infra/common"
	"github.com/GregMSThompson/insideoutbound-backend/infra/kms"
	"github.com/GregMSThompson/insideoutbound-backend/infra/secret"
)

type secretRefs struct {
	serviceKeyName pulumi.StringOutput
	sentryDSNName  pulumi.StringOutput
}

// appEnv is the runtime configuration shared by the api service and the refresh job.
type appEnv struct {
	projectID   string
	region      string
	logLevel    string
	environment string
	apiBaseURL  string
	stripeKey   string
	keyID       pulumi.StringOutput
	secrets     *secretRefs
}

func SetupCloudRun(ctx *pulumi.Context, prov *gcp.Provider, keyID pulumi.StringOutput, res ...pulumi.Resource) (*serviceaccount.Account, error) {
	apiImg, err := buildImage(ctx, "apiImage", "api", res...)
	if err != nil {
		return nil, err
	}

	srv, err := enableCloudRun(ctx, prov)
	if err != nil {
		return nil, err
	}

	apiSA, err := createServiceAccount(ctx, prov)
	if err != nil {
		return nil, err
	}

	if err := kms.GrantEncrypterDecrypter(ctx, prov, keyID, apiSA.Email); err != nil {
		return nil, err
	}

	smSrv, err := secret.SetupSecretManager(ctx, prov, apiSA)
	if err != nil {
		return nil, err
	}

	sr, err := createSecrets(ctx)
	if err != nil {
		return nil, err
	}

	env := loadAppEnv(ctx, keyID, sr)

	svc, err := createCloudRunService(ctx, apiImg, apiSA, env, prov, srv, smSrv)
	if err != nil {
		return nil, err
	}

	err = setIAMAccessPolicy(ctx, svc, prov)
	if err != nil {
		return nil, err
	}

	jobImg, err := buildImage(ctx, "serviceImage", "service", res...)
	if err != nil {
		return nil, err
	}

	if err := setupRefreshJob(ctx, jobImg, apiSA, env, prov, srv, smSrv); err != nil {
		return nil, err
	}

	return apiSA, nil
}

func loadAppEnv(ctx *pulumi.Context, keyID pulumi.StringOutput, sr *secretRefs) *appEnv {
	gcpCfg := config.New(ctx, "gcp")
	crCfg := config.New(ctx, "cloudrun")
	appCfg := config.New(ctx, "app")

	return &appEnv{
		projectID:   gcpCfg.Require("project"),
		region:      gcpCfg.Require("region"),
		logLevel:    crCfg.Require("logLevel"),
		environment: appCfg.Require("environment"),
		apiBaseURL:  appCfg.Require("apiBaseUrl"),
		stripeKey:   appCfg.Get("stripePublishableKey"),
		keyID:       keyID,
		secrets:     sr,
	}
}

func buildImage(ctx *pulumi.Context, name, cmd string, res ...pulumi.Resource) (*docker.Image, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")

	hash, err := common.GenerateHash("../")
	if err != nil {
		return nil, err
	}

	return docker.NewImage(ctx, name, &docker.ImageArgs{
		Build: docker.DockerBuildArgs{
			Platform:   pulumi.String("linux/amd64"),
			Context:    pulumi.String(".."), // build from repo root
			Dockerfile: pulumi.String(fmt.Sprintf("../cmd/%s/Dockerfile", cmd)),
		},
		ImageName: pulumi.String(fmt.Sprintf("%s-docker.pkg.dev/%s/api/insideoutbound-%s:%s", region, projectID, cmd, hash)),
	},
		pulumi.DependsOn(res),
	)
}

func enableCloudRun(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "cloudRunService", &projects.ServiceArgs{
		Service: pulumi.String("run.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

func createServiceAccount(ctx *pulumi.Context, prov *gcp.Provider) (*serviceaccount.Account, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")

	apiSA, err := serviceaccount.NewAccount(ctx, "apiServiceAccount", &serviceaccount.AccountArgs{
		AccountId:   pulumi.String("insideoutbound-api"),
		DisplayName: pulumi.String("InsideOutbound API Service Account"),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	_, err = projects.NewIAMMember(ctx, "firestoreAccess", &projects.IAMMemberArgs{
		Role: pulumi.String("roles/datastore.user"), // Firestore read/write
		Member: apiSA.Email.ApplyT(func(email string) string {
			return fmt.Sprintf("serviceAccount:%s", email)
		}).(pulumi.StringOutput),
		Project: pulumi.String(projectID),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	return apiSA, nil
}

func createCloudRunService(ctx *pulumi.Context,
	img *docker.Image,
	apiSA *serviceaccount.Account,
	env *appEnv,
	prov *gcp.Provider,
	res ...pulumi.Resource) (*cloudrun.Service, error) {
	crCfg := config.New(ctx, "cloudrun")

	minScale := crCfg.Require("minScale")
	maxScale := crCfg.Require("maxScale")
	cpu := crCfg.Require("cpu")
	memory := crCfg.Require("memory")
	concurrency := crCfg.Require("concurrency")
	timeout, _ := strconv.Atoi(crCfg.Require("timeout"))

	return cloudrun.NewService(ctx, "apiService", &cloudrun.ServiceArgs{
		Location: pulumi.String(env.region),

		Template: &cloudrun.ServiceTemplateArgs{

			Metadata: &cloudrun.ServiceTemplateMetadataArgs{
				// ---- AUTOSCALING + INSTANCE SIZE ----
				Annotations: pulumi.StringMap{
					// Enable Identity Platform (Firebase) authentication
					"run.googleapis.com/launch-stage":      pulumi.String("BETA"),
					"run.googleapis.com/identity-provider": pulumi.String("firebase"),

					// Autoscaling bounds
					"autoscaling.knative.dev/minScale": pulumi.String(minScale),
					"autoscaling.knative.dev/maxScale": pulumi.String(maxScale),

					// Instance sizing
					"run.googleapis.com/cpu":    pulumi.String(cpu),
					"run.googleapis.com/memory": pulumi.String(memory),

					// Pending autosaves are flushed on shutdown, so keep
					// CPU allocated outside of requests
					"run.googleapis.com/cpu-throttling": pulumi.String("false"),

					// Set the number of concurrent requests per container
					"run.googleapis.com/container-concurrency": pulumi.String(concurrency),
				},
			},

			Spec: &cloudrun.ServiceTemplateSpecArgs{
				ServiceAccountName: apiSA.Email,
				TimeoutSeconds:     pulumi.Int(timeout),

				Containers: cloudrun.ServiceTemplateSpecContainerArray{
					&cloudrun.ServiceTemplateSpecContainerArgs{
						Image: img.ImageName,
						Ports: cloudrun.ServiceTemplateSpecContainerPortArray{
							&cloudrun.ServiceTemplateSpecContainerPortArgs{
								ContainerPort: pulumi.Int(8080),
							},
						},
						Envs: serviceEnvs(env),
					},
				},
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

func serviceEnvs(env *appEnv) cloudrun.ServiceTemplateSpecContainerEnvArray {
	plain := func(name, value string) *cloudrun.ServiceTemplateSpecContainerEnvArgs {
		return &cloudrun.ServiceTemplateSpecContainerEnvArgs{
			Name:  pulumi.String(name),
			Value: pulumi.String(value),
		}
	}
	return cloudrun.ServiceTemplateSpecContainerEnvArray{
		plain("PROJECTID", env.projectID),
		plain("REGION", env.region),
		plain("LOGLEVEL", env.logLevel),
		plain("ENVIRONMENT", env.environment),
		plain("APIBASEURL", env.apiBaseURL),
		plain("STRIPEPUBLISHABLEKEY", env.stripeKey),
		&cloudrun.ServiceTemplateSpecContainerEnvArgs{
			Name:  pulumi.String("KMSKEYNAME"),
			Value: env.keyID,
		},
		&cloudrun.ServiceTemplateSpecContainerEnvArgs{
			Name:  pulumi.String("SERVICEKEYSECRET"),
			Value: env.secrets.serviceKeyName,
		},
		&cloudrun.ServiceTemplateSpecContainerEnvArgs{
			Name: pulumi.String("SENTRYDSN"),
			ValueFrom: &cloudrun.ServiceTemplateSpecContainerEnvValueFromArgs{
				SecretKeyRef: &cloudrun.ServiceTemplateSpecContainerEnvValueFromSecretKeyRefArgs{
					Name: env.secrets.sentryDSNName,
					Key:  pulumi.String("latest"),
				},
			},
		},
	}
}

func setIAMAccessPolicy(ctx *pulumi.Context, svc *cloudrun.Service, prov *gcp.Provider) error {
	gcpCfg := config.New(ctx, "gcp")
	region := gcpCfg.Require("region")

	_, err := cloudrun.NewIamMember(ctx, "denyUnauthenticated", &cloudrun.IamMemberArgs{
		Service:  svc.Name,
		Location: pulumi.String(region),
		Role:     pulumi.String("roles/run.invoker"),

		// Allow requests to reach Identity Platform (Firebase) auth
		Member: pulumi.String("allUsers"),
	},
		pulumi.Provider(prov),
	)
	return err
}

func createSecrets(ctx *pulumi.Context) (*secretRefs, error) {
	var err error
	sr := new(secretRefs)

	appCfg := config.New(ctx, "app")
	serviceKey := appCfg.RequireSecret("serviceKey")
	sentryDSN := appCfg.RequireSecret("sentryDsn")

	sr.serviceKeyName, err = secret.AddSecret(ctx, "serviceKeySecret", "prospectingServiceKey", serviceKey)
	if err != nil {
		return nil, err
	}

	sr.sentryDSNName, err = secret.AddSecret(ctx, "sentryDsnSecret", "sentryDsn", sentryDSN)
	if err != nil {
		return nil, err
	}

	return sr, nil
}
