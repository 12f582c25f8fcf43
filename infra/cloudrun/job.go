package cloudrun

import (
	"fmt"

	"github.com/pulumi/pulumi-docker/sdk/v4/go/docker"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/cloudrunv2"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/cloudscheduler"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// setupRefreshJob deploys cmd/service as a Cloud Run job and triggers it on
// the configured schedule.
func setupRefreshJob(ctx *pulumi.Context,
	img *docker.Image,
	apiSA *serviceaccount.Account,
	env *appEnv,
	prov *gcp.Provider,
	res ...pulumi.Resource) error {
	jobCfg := config.New(ctx, "refreshJob")
	schedule := jobCfg.Get("schedule")
	if schedule == "" {
		schedule = "0 5 * * *"
	}

	job, err := cloudrunv2.NewJob(ctx, "refreshJob", &cloudrunv2.JobArgs{
		Location: pulumi.String(env.region),
		Template: &cloudrunv2.JobTemplateArgs{
			Template: &cloudrunv2.JobTemplateTemplateArgs{
				ServiceAccount: apiSA.Email,
				MaxRetries:     pulumi.Int(1),
				Containers: cloudrunv2.JobTemplateTemplateContainerArray{
					&cloudrunv2.JobTemplateTemplateContainerArgs{
						Image: img.ImageName,
						Envs:  jobEnvs(env),
					},
				},
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
	if err != nil {
		return err
	}

	sched, err := projects.NewService(ctx, "cloudSchedulerService", &projects.ServiceArgs{
		Service: pulumi.String("cloudscheduler.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return err
	}

	_, err = projects.NewIAMMember(ctx, "refreshJobInvoker", &projects.IAMMemberArgs{
		Project: pulumi.String(env.projectID),
		Role:    pulumi.String("roles/run.invoker"),
		Member: apiSA.Email.ApplyT(func(email string) string {
			return fmt.Sprintf("serviceAccount:%s", email)
		}).(pulumi.StringOutput),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return err
	}

	runURI := job.Name.ApplyT(func(name string) string {
		return fmt.Sprintf("https://run.googleapis.com/v2/projects/%s/locations/%s/jobs/%s:run", env.projectID, env.region, name)
	}).(pulumi.StringOutput)

	_, err = cloudscheduler.NewJob(ctx, "refreshJobSchedule", &cloudscheduler.JobArgs{
		Region:   pulumi.String(env.region),
		Schedule: pulumi.String(schedule),
		TimeZone: pulumi.String("Etc/UTC"),
		HttpTarget: &cloudscheduler.JobHttpTargetArgs{
			HttpMethod: pulumi.String("POST"),
			Uri:        runURI,
			OauthToken: &cloudscheduler.JobHttpTargetOauthTokenArgs{
				ServiceAccountEmail: apiSA.Email,
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn([]pulumi.Resource{sched, job}),
	)
	return err
}

func jobEnvs(env *appEnv) cloudrunv2.JobTemplateTemplateContainerEnvArray {
	plain := func(name, value string) *cloudrunv2.JobTemplateTemplateContainerEnvArgs {
		return &cloudrunv2.JobTemplateTemplateContainerEnvArgs{
			Name:  pulumi.String(name),
			Value: pulumi.String(value),
		}
	}
	return cloudrunv2.JobTemplateTemplateContainerEnvArray{
		plain("PROJECTID", env.projectID),
		plain("REGION", env.region),
		plain("LOGLEVEL", env.logLevel),
		plain("ENVIRONMENT", env.environment),
		plain("APIBASEURL", env.apiBaseURL),
		&cloudrunv2.JobTemplateTemplateContainerEnvArgs{
			Name:  pulumi.String("KMSKEYNAME"),
			Value: env.keyID,
		},
		&cloudrunv2.JobTemplateTemplateContainerEnvArgs{
			Name:  pulumi.String("SERVICEKEYSECRET"),
			Value: env.secrets.serviceKeyName,
		},
	}
}
