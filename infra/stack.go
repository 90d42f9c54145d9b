package infra

func parameters() map[string]Parameter {
	return map[string]Parameter{
		"ArtifactBucket": {
			Type:        "String",
			Description: "Bucket holding the function archives",
		},
		"EndpointParameterName": {
			Type:        "String",
			Description: "SSM parameter holding the third-party endpoint URL",
			Default:     "thirdparty_endpoint",
		},
	}
}

func resources() map[string]ResourceDef {
	return map[string]ResourceDef{
		"ImagesBucket":       ImagesBucket,
		"UploadTopic":        UploadTopic,
		"UploadTopicPolicy":  UploadTopicPolicy,
		"UploadQueue":        UploadQueue,
		"UploadQueuePolicy":  UploadQueuePolicy,
		"UploadSubscription": UploadSubscription,
		"UploadFunctionRole": UploadFunctionRole,
		"UploadFunction":     UploadFunction,
		"UserPool":           UserPool,
		"UserPoolClient":     UserPoolClient,
		"UploadAPI":          UploadAPI,
		"UploadAuthorizer":   UploadAuthorizer,
		"UploadMethod":       UploadMethod,
		"UploadDeployment":   UploadDeployment,
		"UploadPermission":   UploadPermission,

		"ClassificationsTable":    ClassificationsTable,
		"RecognitionFunctionRole": RecognitionFunctionRole,
		"RecognitionFunction":     RecognitionFunction,
		"RecognitionEventSource":  RecognitionEventSource,
		"ListFunctionRole":        ListFunctionRole,
		"ListFunction":            ListFunction,
		"ListAPI":                 ListAPI,
		"ListMethod":              ListMethod,
		"ListDeployment":          ListDeployment,
		"ListPermission":          ListPermission,

		"RekognizedTopic":         RekognizedTopic,
		"RekognizedQueue":         RekognizedQueue,
		"RekognizedQueuePolicy":   RekognizedQueuePolicy,
		"RekognizedSubscription":  RekognizedSubscription,
		"IntegrationFunctionRole": IntegrationFunctionRole,
		"IntegrationFunction":     IntegrationFunction,
		"IntegrationEventSource":  IntegrationEventSource,
	}
}

func outputs() map[string]Output {
	return map[string]Output{
		"UserPoolId": {
			Description: "Cognito user pool for the upload API",
			Value:       Ref("UserPool"),
		},
		"UserPoolClientId": {
			Description: "Cognito app client for the upload API",
			Value:       Ref("UserPoolClient"),
		},
		"UploadApiUrl": {
			Description: "Upload API endpoint",
			Value:       Sub("https://${UploadAPI}.execute-api.${AWS::Region}.amazonaws.com/prod/"),
		},
		"ListApiUrl": {
			Description: "List API endpoint",
			Value:       Sub("https://${ListAPI}.execute-api.${AWS::Region}.amazonaws.com/prod/"),
		},
		"ClassificationsTableName": {
			Value: Ref("ClassificationsTable"),
		},
	}
}
