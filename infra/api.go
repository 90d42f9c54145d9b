package infra

// ----------------------------------------------------------------------------
// Image storage and upload notifications
// ----------------------------------------------------------------------------

// ImagesBucket stores uploaded images and announces new objects on UploadTopic.
var ImagesBucket = ResourceDef{
	Type: "AWS::S3::Bucket",
	Properties: map[string]any{
		"NotificationConfiguration": map[string]any{
			"TopicConfigurations": []any{
				map[string]any{
					"Event": "s3:ObjectCreated:Put",
					"Topic": Ref("UploadTopic"),
				},
			},
		},
	},
	DependsOn: []string{"UploadTopicPolicy"},
}

var UploadTopic = ResourceDef{Type: "AWS::SNS::Topic"}

// UploadTopicPolicy lets S3 publish object events.
var UploadTopicPolicy = ResourceDef{
	Type: "AWS::SNS::TopicPolicy",
	Properties: map[string]any{
		"Topics": []any{Ref("UploadTopic")},
		"PolicyDocument": map[string]any{
			"Version": "2012-10-17",
			"Statement": []any{
				map[string]any{
					"Effect":    "Allow",
					"Principal": map[string]any{"Service": "s3.amazonaws.com"},
					"Action":    "sns:Publish",
					"Resource":  Ref("UploadTopic"),
				},
			},
		},
	},
}

// UploadQueue feeds the recognition function.
var UploadQueue = queue(60)

var UploadQueuePolicy = topicToQueuePolicy("UploadTopic", "UploadQueue")

var UploadSubscription = rawSubscription("UploadTopic", "UploadQueue")

// ----------------------------------------------------------------------------
// Upload function
// ----------------------------------------------------------------------------

var UploadFunctionRole = lambdaRole("images-read-write",
	statement([]string{"s3:GetObject", "s3:PutObject", "s3:DeleteObject"}, Sub("${ImagesBucket.Arn}/*")),
	statement([]string{"s3:ListBucket"}, GetAtt{"ImagesBucket", "Arn"}),
)

// UploadFunction copies a remote image into ImagesBucket.
var UploadFunction = function("upload-image.zip", "UploadFunctionRole", 60, map[string]any{
	"BUCKET_NAME": Ref("ImagesBucket"),
})

// ----------------------------------------------------------------------------
// Authenticated upload API
// ----------------------------------------------------------------------------

var UserPool = ResourceDef{
	Type: "AWS::Cognito::UserPool",
	Properties: map[string]any{
		"UserPoolName":           "APIUserPool",
		"AliasAttributes":        []any{"email"},
		"AutoVerifiedAttributes": []any{"email"},
		"AdminCreateUserConfig":  map[string]any{"AllowAdminCreateUserOnly": false},
		"Policies": map[string]any{
			"PasswordPolicy": map[string]any{
				"MinimumLength":    8,
				"RequireLowercase": true,
				"RequireUppercase": true,
				"RequireNumbers":   true,
				"RequireSymbols":   true,
			},
		},
	},
}

var UserPoolClient = ResourceDef{
	Type: "AWS::Cognito::UserPoolClient",
	Properties: map[string]any{
		"UserPoolId": Ref("UserPool"),
		"ExplicitAuthFlows": []any{
			"ALLOW_ADMIN_USER_PASSWORD_AUTH",
			"ALLOW_USER_PASSWORD_AUTH",
			"ALLOW_USER_SRP_AUTH",
			"ALLOW_REFRESH_TOKEN_AUTH",
		},
	},
}

var UploadAPI = restAPI("Image Upload Service", "Upload an image by URL.")

var UploadAuthorizer = ResourceDef{
	Type: "AWS::ApiGateway::Authorizer",
	Properties: map[string]any{
		"Name":           "APIGatewayCognitoAuthorizer",
		"Type":           "COGNITO_USER_POOLS",
		"RestApiId":      Ref("UploadAPI"),
		"IdentitySource": "method.request.header.Authorization",
		"ProviderARNs":   []any{GetAtt{"UserPool", "Arn"}},
	},
}

var UploadMethod = rootGet("UploadAPI", "UploadFunction", map[string]any{
	"AuthorizationType": "COGNITO_USER_POOLS",
	"AuthorizerId":      Ref("UploadAuthorizer"),
})

var UploadDeployment = deployment("UploadAPI", "UploadMethod")

var UploadPermission = invokePermission("UploadAPI", "UploadFunction")
