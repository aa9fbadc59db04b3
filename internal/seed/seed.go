// Package seed loads a demo catalogue of listings into an empty board.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"jobboard/internal/domain"
	"jobboard/internal/service"
)

type sample struct {
	title, company, location string
	jobType                  domain.JobType
	experience, salary       string
	short, description       string
	requirements, benefits   []string
	tags                     []string
	applyLink                string
}

var samples = []sample{
	{
		title:        "Senior Full Stack Developer",
		company:      "CloudBlitz Technologies",
		location:     "Mumbai, India",
		jobType:      domain.JobTypeFullTime,
		experience:   "5-8 years",
		salary:       "₹15,00,000 - ₹25,00,000",
		short:        "Join our dynamic team to build scalable web applications using modern technologies like React, Node.js, and cloud platforms.",
		description:  "We are looking for a Senior Full Stack Developer to design and develop scalable web applications, work with React, Node.js and cloud platforms, mentor junior developers and take part in code reviews.",
		requirements: []string{"5-8 years of full-stack development", "Strong JavaScript, React and Node.js", "Experience with AWS, Azure or GCP", "CI/CD pipelines"},
		benefits:     []string{"Flexible work arrangements", "Health insurance", "Annual bonus"},
		tags:         []string{"react", "node.js", "cloud"},
		applyLink:    "https://cloudblitz.in/careers/senior-developer",
	},
	{
		title:        "DevOps Engineer",
		company:      "TechCorp Solutions",
		location:     "Bangalore, India",
		jobType:      domain.JobTypeFullTime,
		experience:   "3-6 years",
		salary:       "₹12,00,000 - ₹20,00,000",
		short:        "Help us build and maintain robust infrastructure and deployment pipelines for our cloud-native applications.",
		description:  "We are seeking a DevOps Engineer to design CI/CD pipelines, manage AWS and Azure infrastructure, monitor system performance and automate deployments.",
		requirements: []string{"3-6 years of DevOps experience", "Docker and Kubernetes", "Python or Bash scripting", "Terraform or CloudFormation"},
		benefits:     []string{"Remote work options", "Certification support"},
		tags:         []string{"devops", "kubernetes", "aws"},
		applyLink:    "https://techcorp.com/careers/devops-engineer",
	},
	{
		title:        "UI/UX Designer",
		company:      "DesignStudio Pro",
		location:     "Delhi, India",
		jobType:      domain.JobTypeContract,
		experience:   "2-4 years",
		salary:       "₹8,00,000 - ₹15,00,000",
		short:        "Create beautiful and intuitive user experiences for web and mobile applications.",
		description:  "We need a UI/UX Designer to run user research, build wireframes and prototypes, and work closely with developers to ship consistent design systems.",
		requirements: []string{"Portfolio of web and mobile work", "Figma or Sketch", "Prototyping and user testing"},
		benefits:     []string{"Flexible hours"},
		tags:         []string{"design", "figma"},
		applyLink:    "https://designstudio.com/careers/uiux-designer",
	},
	{
		title:        "Data Scientist",
		company:      "Analytics Inc",
		location:     "Hyderabad, India",
		jobType:      domain.JobTypeFullTime,
		experience:   "4-7 years",
		salary:       "₹18,00,000 - ₹30,00,000",
		short:        "Transform data into actionable insights and build machine learning models to drive business decisions.",
		description:  "Analytics Inc is hiring a Data Scientist to build predictive models, analyse large datasets and present findings to stakeholders.",
		requirements: []string{"Python, pandas and scikit-learn", "Statistics and experiment design", "SQL"},
		benefits:     []string{"Conference budget", "Health insurance"},
		tags:         []string{"python", "machine learning", "data"},
		applyLink:    "https://analyticsinc.com/careers/data-scientist",
	},
	{
		title:        "Frontend Developer",
		company:      "WebCraft Solutions",
		location:     "Chennai, India",
		jobType:      domain.JobTypePartTime,
		experience:   "2-4 years",
		salary:       "₹6,00,000 - ₹10,00,000",
		short:        "Build responsive and interactive user interfaces using modern frontend technologies.",
		description:  "WebCraft Solutions is looking for a part-time Frontend Developer to build responsive interfaces and improve accessibility and performance.",
		requirements: []string{"HTML, CSS and JavaScript", "React or Vue"},
		tags:         []string{"frontend", "react"},
		applyLink:    "https://webcraft.com/careers/frontend-developer",
	},
	{
		title:        "QA Engineer",
		company:      "QualityFirst",
		location:     "Noida, India",
		jobType:      domain.JobTypeContract,
		experience:   "2-4 years",
		salary:       "₹8,00,000 - ₹12,00,000",
		short:        "Ensure software quality through comprehensive testing strategies and automated test frameworks.",
		description:  "QualityFirst needs a QA Engineer to write test plans, automate regression suites and track defects through release.",
		requirements: []string{"Selenium or Cypress", "API testing"},
		tags:         []string{"qa", "testing"},
		applyLink:    "https://qualityfirst.com/careers/qa-engineer",
	},
	{
		title:        "Mobile App Developer",
		company:      "AppWorks Studio",
		location:     "Remote",
		jobType:      domain.JobTypeRemote,
		experience:   "3-6 years",
		salary:       "₹10,00,000 - ₹18,00,000",
		short:        "Build native and cross-platform mobile applications for iOS and Android platforms.",
		description:  "AppWorks Studio is hiring a Mobile App Developer to ship iOS and Android apps with Flutter or React Native.",
		requirements: []string{"Flutter or React Native", "Published apps"},
		tags:         []string{"mobile", "flutter"},
		applyLink:    "https://appworks.com/careers/mobile-developer",
	},
}

// Inputs returns the sample listings, each expiring validFor after now.
func Inputs(now time.Time, validFor time.Duration) []service.ListingInput {
	out := make([]service.ListingInput, len(samples))
	for i, s := range samples {
		out[i] = service.ListingInput{
			Title:            s.title,
			Company:          s.company,
			Location:         s.location,
			Type:             s.jobType,
			Experience:       s.experience,
			Salary:           s.salary,
			ShortDescription: s.short,
			Description:      s.description,
			Requirements:     s.requirements,
			Benefits:         s.benefits,
			Tags:             s.tags,
			ApplyLink:        s.applyLink,
			IsActive:         true,
			ExpiryDate:       now.Add(validFor).UTC(),
		}
	}
	return out
}

// Run creates the sample listings owned by ownerID. It returns how many were created.
func Run(ctx context.Context, listings service.ListingService, ownerID string, validFor time.Duration, logger logrus.FieldLogger) (int, error) {
	created := 0
	for _, input := range Inputs(time.Now(), validFor) {
		listing, err := listings.Create(ctx, ownerID, input)
		if err != nil {
			return created, fmt.Errorf("seed %q: %w", input.Title, err)
		}
		logger.WithFields(logrus.Fields{"listing_id": listing.ID, "title": listing.Title}).Info("seeded listing")
		created++
	}
	return created, nil
}
